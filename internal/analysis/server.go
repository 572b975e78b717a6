package analysis

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter serves the keyword rules over the same HTTP contract the
// Gateway consumes.
func NewRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Grievance analysis service is running", "status": "OK"})
	})
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "analysis"})
	})
	r.POST("/api/analyze", analyzeHandler)

	return r
}

func analyzeHandler(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	a := Analyze(req.Title, req.Description)
	log.Printf("INFO: classified %q as %s (%.2f), %s, %s", req.Title, a.Category, a.Confidence, a.Sentiment, a.Priority)

	c.JSON(http.StatusOK, Response{
		Category:   string(a.Category),
		Sentiment:  string(a.Sentiment),
		Priority:   string(a.Priority),
		Confidence: a.Confidence,
	})
}
