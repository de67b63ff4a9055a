// Package http serves the echosyntax endpoints on net/http.
//
// Routes:
//
//	POST /generate-code   {userPrompt} -> {language, code, explanation, output}
//	POST /execute-code    {compiler, code} -> {status, program_message | compiler_error}
//	GET  /healthz         liveness probe
//	GET  /metrics         Prometheus exposition (WithMetrics)
//
// Further routes (the MCP endpoint) are added with WithRoute.
package http
