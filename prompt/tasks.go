package prompt

// Task names reported alongside requests; they identify which TaskFunc was used.
const (
	TaskConvertUserInputToGoal     = "convert_user_input_to_goal"
	TaskPrintProjectScope          = "print_project_scope"
	TaskPrintSiteURLs              = "print_site_urls"
	TaskPrintBackendWebserverCode  = "print_backend_webserver_code"
	TaskPrintImprovedWebserverCode = "print_improved_webserver_code"
	TaskPrintFixedCode             = "print_fixed_code"
	TaskPrintRestAPIEndpoints      = "print_rest_api_endpoints"
)

var (
	convertUserInputToGoalText = `convert_user_input_to_goal(user_request: str) -> str
Input: a user request describing a website they want built.
Function: summarizes the request into one short goal statement.
Output: the goal as plain text. The goal always begins with "build a website that".
Example:
  user_request = "I need a site where people sign in and out, it should look great and take payments"
  prints: build a website that lets users log in and log out and accepts payments`

	printProjectScopeText = `print_project_scope(project_description: str) -> ProjectScope
Input: a project description of a website build.
Function: decides which capabilities the build requires.
Important: at least one of the boolean results must be true.
Output: a single JSON object matching this JSON schema, with no surrounding text:
` + projectScopeSchema + `
Example:
  project_description = "build a website that shows the latest forex prices to logged in users"
  prints: {"is_crud_required": false, "is_user_login_and_logout": true, "is_external_urls_required": true}`

	printSiteURLsText = `print_site_urls(project_description: str) -> list[str]
Input: a project description of a website build.
Function: lists public external API endpoints the website should consume.
Important: only select endpoints that work without any API key.
Output: a JSON array of URL strings matching this JSON schema, with no surrounding text:
` + urlListSchema + `
Example:
  prints: ["https://api.binance.com/api/v3/exchangeInfo", "https://api.binance.com/api/v3/klines?symbol=BTCUSDT&interval=1d"]`

	printBackendWebserverCodeText = `print_backend_webserver_code(project_description_and_template: str) -> str
Input: a project description followed by a code template for a web server.
Function: rewrites the template into a complete web server satisfying the project description.
Keep the template's framework and structure; remove code that is not needed.
Output: only the source code, without markdown fences or commentary.`

	printImprovedWebserverCodeText = `print_improved_webserver_code(project_description_and_code: str) -> str
Input: a project description and the current web server code.
Function: improves the code so it fully satisfies the description: handles errors,
fetches data from the listed external URLs where relevant, and removes unused code.
Output: only the improved source code, without markdown fences or commentary.`

	printFixedCodeText = `print_fixed_code(broken_code_with_bugs: str) -> str
Input: web server code followed by the error produced when validating it.
Function: fixes the reported bugs without changing unrelated behavior.
Output: only the fixed source code, without markdown fences or commentary.`

	printRestAPIEndpointsText = `print_rest_api_endpoints(code_input: str) -> list[RouteObject]
Input: web server source code.
Function: extracts every REST endpoint the server exposes.
Output: a JSON array matching this JSON schema, with no surrounding text:
` + routeListSchema + `
Example:
  prints: [{"is_route_dynamic": "false", "method": "get", "request_body": null, "response": {"id": "number"}, "route": "/items"}]`
)

// ConvertUserInputToGoal describes turning a free-form request into a goal.
func ConvertUserInputToGoal(_ string) string { return convertUserInputToGoalText }

// PrintProjectScope describes producing a ProjectScope JSON object.
func PrintProjectScope(_ string) string { return printProjectScopeText }

// PrintSiteURLs describes producing a JSON list of external URLs.
func PrintSiteURLs(_ string) string { return printSiteURLsText }

// PrintBackendWebserverCode describes producing initial backend code from a template.
func PrintBackendWebserverCode(_ string) string { return printBackendWebserverCodeText }

// PrintImprovedWebserverCode describes refining backend code.
func PrintImprovedWebserverCode(_ string) string { return printImprovedWebserverCodeText }

// PrintFixedCode describes fixing backend code given a validation error.
func PrintFixedCode(_ string) string { return printFixedCodeText }

// PrintRestAPIEndpoints describes extracting the endpoint schema from code.
func PrintRestAPIEndpoints(_ string) string { return printRestAPIEndpointsText }
