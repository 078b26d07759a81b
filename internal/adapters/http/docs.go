package http

import (
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
)

// The UI keeps the bearer token between reloads so the saved-place routes
// can be tried after a login.
const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Placemap API | Swagger UI</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/docs/openapi.yaml',
      dom_id: '#swagger-ui',
      persistAuthorization: true,
      tryItOutEnabled: true,
    });
  </script>
</body>
</html>`

// SetupDocs serves Swagger UI at /docs and the OpenAPI document at
// /docs/openapi.yaml. The document is read once; when it is missing the
// routes answer 404 and startup logs a warning.
func SetupDocs(app *fiber.App, specPath string) {
	spec, err := os.ReadFile(specPath)
	if err != nil {
		slog.Warn("openapi document unavailable", "path", specPath, "error", err)
	}

	docs := app.Group("/docs")
	docs.Get("/", func(c *fiber.Ctx) error {
		if spec == nil {
			return errNotFound(c, "API documentation not available")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(swaggerUIHTML)
	})
	docs.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		if spec == nil {
			return errNotFound(c, "openapi.yaml not found")
		}
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(spec)
	})
}
