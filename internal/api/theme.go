package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"colortool/internal/model"
	"colortool/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// 响应头：处理结果摘要
const (
	headerRowIndex = "X-Theme-Row-Index"
	headerUpdated  = "X-Theme-Updated"
	headerNotFound = "X-Theme-Not-Found"
	headerCreated  = "X-Theme-Created"
	headerRunID    = "X-Theme-Run-Id"
)

// ThemeForm 主题处理表单
type ThemeForm struct {
	RSCFile    *multipart.FileHeader `form:"rsc_file" binding:"required"`
	SourceFile *multipart.FileHeader `form:"source_file" binding:"required"`
	ThemeName  string                `form:"theme_name" binding:"required"`
}

// PreviewResponse 预览响应
type PreviewResponse struct {
	Success       bool                `json:"success"`
	RunID         string              `json:"runId,omitempty"`
	ThemeName     string              `json:"themeName"`
	RowIndex      int                 `json:"rowIndex"`
	Created       bool                `json:"created"`
	SourceSheet   string              `json:"sourceSheet"`
	UpdatedColors []model.UpdateEntry `json:"updatedColors"`
	Summary       model.Summary       `json:"summary"`
	Data          *model.Table        `json:"data"`
	Filename      string              `json:"filename"`
	DownloadURL   string              `json:"downloadUrl"`
}

// ProcessTheme 处理并直接返回更新后的工作簿
// POST /api/process-theme
func (h *Handler) ProcessTheme(c *gin.Context) {
	out, ok := h.runProcess(c)
	if !ok {
		return
	}

	res := out.Result
	c.Header(headerRowIndex, strconv.Itoa(res.RowIndex))
	c.Header(headerUpdated, strconv.Itoa(res.Summary.Updated))
	c.Header(headerNotFound, strconv.Itoa(res.Summary.NotFound))
	c.Header(headerCreated, strconv.FormatBool(res.Created))
	if out.RunID != "" {
		c.Header(headerRunID, out.RunID)
	}
	c.Header("Content-Disposition", buildContentDisposition(out.Filename))
	c.Data(http.StatusOK, xlsxContentType, out.Workbook)
}

// PreviewTheme 处理并返回 JSON 结果，工作簿通过一次性链接下载
// POST /api/preview-theme
func (h *Handler) PreviewTheme(c *gin.Context) {
	out, ok := h.runProcess(c)
	if !ok {
		return
	}

	token := h.downloads.put(out.Filename, out.Workbook, previewDownloadTTL)
	res := out.Result
	c.JSON(http.StatusOK, PreviewResponse{
		Success:       true,
		RunID:         out.RunID,
		ThemeName:     res.ThemeName,
		RowIndex:      res.RowIndex,
		Created:       res.Created,
		SourceSheet:   out.SourceSheet,
		UpdatedColors: res.UpdatedColors,
		Summary:       res.Summary,
		Data:          res.Table,
		Filename:      out.Filename,
		DownloadURL:   "/api/download/" + token,
	})
}

// Download 一次性下载预览结果
// GET /api/download/:token
func (h *Handler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.filename))
	c.Data(http.StatusOK, xlsxContentType, item.content)
}

// runProcess 解析表单并执行处理；失败时已写入错误响应
func (h *Handler) runProcess(c *gin.Context) (*service.Output, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var form ThemeForm
	if err := c.ShouldBind(&form); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "上传文件过大"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "缺少必要的文件或参数"})
		}
		return nil, false
	}

	rscContent, err := readUpload(form.RSCFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取 RSC 文件失败"})
		return nil, false
	}
	sourceContent, err := readUpload(form.SourceFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取配色源文件失败"})
		return nil, false
	}

	out, err := h.processor.Process(c.Request.Context(), service.Input{
		RSCName:       form.RSCFile.Filename,
		RSCContent:    rscContent,
		SourceName:    form.SourceFile.Filename,
		SourceContent: sourceContent,
		ThemeName:     form.ThemeName,
	})
	if err != nil {
		if service.IsClientError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "处理失败", "details": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "处理失败", "details": err.Error()})
		}
		return nil, false
	}
	return out, true
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// buildContentDisposition 附件头，附带 RFC 5987 编码的文件名
func buildContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
