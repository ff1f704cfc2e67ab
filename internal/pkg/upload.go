package pkg

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
)

var uploadDir = func() string {
	if v := os.Getenv("YATUBE_UPLOAD_DIR"); v != "" {
		return v
	}
	return "uploads"
}()

// SaveUpload 保存上传的图片，返回存储路径
func SaveUpload(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(fh.Filename))
	dst := filepath.Join(uploadDir, "posts", name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return dst, nil
}
