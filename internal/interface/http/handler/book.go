package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooksUseCase   *appbook.ListBooksUseCase
	getBookUseCase     *appbook.GetBookUseCase
	publishBookUseCase *appbook.PublishBookUseCase
	updateBookUseCase  *appbook.UpdateBookUseCase
	deleteBookUseCase  *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	publishBookUseCase *appbook.PublishBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:   listBooksUseCase,
		getBookUseCase:     getBookUseCase,
		publishBookUseCase: publishBookUseCase,
		updateBookUseCase:  updateBookUseCase,
		deleteBookUseCase:  deleteBookUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  按分类、价格区间、标题关键字过滤，按标题排序后分页
// @Tags         图书
// @Produce      json
// @Param        page     query int    false "页码，从1开始" default(1)
// @Param        pageSize query int    false "每页条数" default(12)
// @Param        search   query string false "标题关键字（不区分大小写）"
// @Param        sort     query string false "标题排序方向" Enums(asc, desc)
// @Param        category query string false "分类（精确匹配）"
// @Param        minPrice query number false "最低价格"
// @Param        maxPrice query number false "最高价格"
// @Success      200 {object} dto.BookListResponse
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	h.list(c, "")
}

// MyBooks 我发布的图书
// @Summary      我的图书
// @Description  参数与图书列表相同，只返回当前用户发布的图书
// @Tags         图书
// @Produce      json
// @Security     CookieAuth
// @Param        page     query int    false "页码，从1开始" default(1)
// @Param        pageSize query int    false "每页条数" default(12)
// @Param        search   query string false "标题关键字"
// @Param        sort     query string false "标题排序方向" Enums(asc, desc)
// @Param        category query string false "分类"
// @Param        minPrice query number false "最低价格"
// @Param        maxPrice query number false "最高价格"
// @Success      200 {object} dto.BookListResponse
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /api/books/my-books [get]
func (h *BookHandler) MyBooks(c *gin.Context) {
	h.list(c, middleware.MustGetUserID(c))
}

func (h *BookHandler) list(c *gin.Context, ownerID string) {
	// 1. 解析查询参数（非法数字按未传处理）
	req := appbook.ListBooksRequest{
		Page:     queryInt(c, "page"),
		PageSize: queryIntPtr(c, "pageSize"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Category: c.Query("category"),
		MinPrice: queryFloat(c, "minPrice"),
		MaxPrice: queryFloat(c, "maxPrice"),
		OwnerID:  ownerID,
	}

	// 2. 调用应用层用例
	result, err := h.listBooksUseCase.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 返回分页结果
	response.Success(c, response.NewPageData(result.Items, result.Total, result.Page, result.PageSize))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path string true "图书ID"
// @Success      200 {object} dto.BookResponse
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	result, err := h.getBookUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.BookResponse{Book: *result})
}

// PublishBook 发布图书
// @Summary      发布图书
// @Description  作者取当前用户显示名，创建者为当前用户
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "参数错误（details逐字段说明）"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Router       /api/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	// 1. 参数绑定
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	// 2. 调用应用层用例，发布者ID来自认证中间件，作者名由用例按当前资料解析
	result, err := h.publishBookUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Title:       req.Title,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		OwnerID:     middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.BookResponse{Book: *result})
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  部分更新，只有创建者本人可以修改；id和createdBy不可修改
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id      path string                true "图书ID"
// @Param        request body dto.UpdateBookRequest true "需要修改的字段"
// @Success      200 {object} dto.BookResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      403 {object} response.ErrorBody "不是创建者"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:          c.Param("id"),
		ActorID:     middleware.MustGetUserID(c),
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.BookResponse{Book: *result})
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     CookieAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.SuccessBody
// @Failure      401 {object} response.ErrorBody "未登录"
// @Failure      403 {object} response.ErrorBody "不是创建者"
// @Failure      404 {object} response.ErrorBody "图书不存在"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.deleteBookUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

func queryIntPtr(c *gin.Context, key string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return nil
	}
	return &n
}

func queryFloat(c *gin.Context, key string) *float64 {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}
