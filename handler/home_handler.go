package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const homePage = `<!DOCTYPE html>
<html>
<head><title>DocQA</title></head>
<body>
<h1>DocQA</h1>
<p>Upload PDF documents and ask questions answered from their content.</p>
<ul>
<li>POST /api/v1/documents/upload &mdash; multipart field "pdfs"</li>
<li>GET /api/v1/ask?q=&lt;question&gt;&amp;pdf_id=&lt;id|all&gt;</li>
<li>GET /api/v1/documents &mdash; list uploaded documents</li>
<li>GET /api/v1/documents/:id/delete</li>
<li>GET /api/v1/documents/:id/transcript</li>
</ul>
</body>
</html>`

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

func (h *HomeHandler) HandleHome(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(homePage))
}
