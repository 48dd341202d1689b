package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	directoryUC "github.com/khoahotran/volc-friends/internal/application/usecase/directory"
)

type DirectoryHandler struct {
	listDirectoryUC *directoryUC.ListDirectoryUseCase
}

func NewDirectoryHandler(listUC *directoryUC.ListDirectoryUseCase) *DirectoryHandler {
	return &DirectoryHandler{listDirectoryUC: listUC}
}

// Square lists public profiles. Accepted query parameters: gender, minAge,
// maxAge, minHeight, maxHeight, education, page and size (or pageSize).
func (h *DirectoryHandler) Square(c *gin.Context) {
	filter, err := directoryUC.FilterFromQuery(c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	output, err := h.listDirectoryUC.Execute(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, DirectoryResponse{
		Users:    output.Users,
		Page:     output.Page,
		PageSize: output.PageSize,
	})
}
