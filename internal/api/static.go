package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticHandler serves the frontend build in dir. Unknown GET paths receive
// index.html so client-side routes resolve.
func StaticHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if dir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		// Clean against a rooted path so ".." cannot climb out of dir.
		rel := filepath.FromSlash(filepath.Clean("/" + c.Request.URL.Path))
		file := filepath.Join(dir, rel)
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	}
}
