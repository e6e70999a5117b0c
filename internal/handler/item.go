package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sokogo/sokogo-backend/internal/mailer"
	"github.com/sokogo/sokogo-backend/internal/model"
	"github.com/sokogo/sokogo-backend/internal/repository"
	"github.com/sokogo/sokogo-backend/internal/upload"
	"github.com/sokogo/sokogo-backend/internal/utils"
)

// ItemHandler serves the listings CRUD.  Mutations are scoped to the
// owning seller; reads are public.  Listing creation optionally stores
// uploaded images and sends a confirmation email, both non-fatal.
type ItemHandler struct {
	Items  *repository.ItemRepo
	Users  *repository.UserRepo
	Mail   *mailer.Mailer
	Images *upload.Store
}

func NewItemHandler(items *repository.ItemRepo, users *repository.UserRepo, mail *mailer.Mailer, images *upload.Store) *ItemHandler {
	if items == nil || users == nil {
		panic("nil repository passed to NewItemHandler")
	}
	return &ItemHandler{Items: items, Users: users, Mail: mail, Images: images}
}

// itemReq is the JSON creation/update payload.  With multipart requests
// the same JSON rides in the "data" form field and images come as
// "images" file parts.
type itemReq struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Subcategory string            `json:"subcategory"`
	Price       float64           `json:"price"`
	Currency    string            `json:"currency"`
	Location    model.Location    `json:"location"`
	Features    model.Features    `json:"features"`
	ContactInfo model.ContactInfo `json:"contactInfo"`
	Status      string            `json:"status"`
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(c echo.Context) error {
	sellerID, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	req, err := h.bindItem(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validateItemReq(req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	seller, err := h.Users.GetByID(ctx, sellerID)
	if err != nil {
		return fail(c, err)
	}
	it := buildItem(req, seller)
	it.Images = h.saveImages(c)

	if err := h.Items.Create(ctx, it); err != nil {
		return fail(c, err)
	}
	if h.Mail != nil {
		if err := h.Mail.SendItemPosted(seller, it); err != nil && err != mailer.ErrNotConfigured {
			log.Printf("item-create: confirmation email failed: %v", err)
		}
	}
	return c.JSON(http.StatusCreated, it)
}

// BulkCreate handles POST /api/items/bulk: an array of listings created
// independently, with a per-index error report for the rejects.
func (h *ItemHandler) BulkCreate(c echo.Context) error {
	sellerID, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var reqs []itemReq
	if err := c.Bind(&reqs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body, expected an array of items"})
	}
	if len(reqs) == 0 || len(reqs) > 50 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "between 1 and 50 items per request"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	seller, err := h.Users.GetByID(ctx, sellerID)
	if err != nil {
		return fail(c, err)
	}

	created := make([]*model.Item, 0, len(reqs))
	failed := make([]echo.Map, 0)
	for i, req := range reqs {
		if errs := validateItemReq(req); len(errs) > 0 {
			failed = append(failed, echo.Map{"index": i, "errors": errs})
			continue
		}
		it := buildItem(req, seller)
		if err := h.Items.Create(ctx, it); err != nil {
			failed = append(failed, echo.Map{"index": i, "errors": []string{"failed to create item"}})
			continue
		}
		created = append(created, it)
	}
	status := http.StatusCreated
	if len(created) == 0 {
		status = http.StatusBadRequest
	}
	return c.JSON(status, echo.Map{
		"created": created,
		"failed":  failed,
	})
}

// List handles GET /api/items with filters and pagination.
func (h *ItemHandler) List(c echo.Context) error {
	f := repository.ItemFilter{
		Category:    strings.ToUpper(c.QueryParam("category")),
		Subcategory: c.QueryParam("subcategory"),
		City:        c.QueryParam("city"),
		Search:      c.QueryParam("search"),
	}
	f.MinPrice, _ = strconv.ParseFloat(c.QueryParam("minPrice"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.QueryParam("maxPrice"), 64)
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if f.Category != "" && !model.ValidCategory(f.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}

	items, total, err := h.Items.List(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"pagination": echo.Map{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetByID handles GET /api/items/:id.
func (h *ItemHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	it, err := h.Items.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

// Popular handles GET /api/items/popular/:category: the four newest
// ACTIVE listings of the category.
func (h *ItemHandler) Popular(c echo.Context) error {
	category := strings.ToUpper(c.Param("category"))
	if !model.ValidCategory(category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}
	items, err := h.Items.Popular(c.Request().Context(), category, 4)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MyItems handles GET /api/items/seller/my-items: everything the
// authenticated seller owns, in any status.
func (h *ItemHandler) MyItems(c echo.Context) error {
	sellerID, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Items.ListBySeller(c.Request().Context(), sellerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Update handles PUT /api/items/:id.  Only the owning seller may
// update; the whole listing body is replaced.
func (h *ItemHandler) Update(c echo.Context) error {
	sellerID, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	req, err := h.bindItem(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validateItemReq(req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": errs})
	}
	if req.Status != "" && !model.ValidItemStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	it := &model.Item{
		ID:          id,
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    strings.ToUpper(req.Category),
		Subcategory: req.Subcategory,
		Price:       req.Price,
		Currency:    req.Currency,
		Location:    req.Location,
		Status:      req.Status,
		Features:    req.Features,
		ContactInfo: req.ContactInfo,
	}
	if it.Status == "" {
		it.Status = model.ItemStatusActive
	}
	if err := h.Items.Update(ctx, it); err != nil {
		return fail(c, err)
	}
	updated, err := h.Items.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/items/:id, scoped to the owning seller.
func (h *ItemHandler) Delete(c echo.Context) error {
	sellerID, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	if err := h.Items.Delete(c.Request().Context(), id, sellerID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "item deleted"})
}

// bindItem decodes the listing payload from either a JSON body or the
// "data" field of a multipart form.
func (h *ItemHandler) bindItem(c echo.Context) (itemReq, error) {
	var req itemReq
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		raw := c.FormValue("data")
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return req, err
		}
		return req, nil
	}
	return req, c.Bind(&req)
}

// saveImages stores any uploaded "images" parts and returns their URLs.
// Failures skip the file; a broken upload never fails the listing.
func (h *ItemHandler) saveImages(c echo.Context) []string {
	if h.Images == nil {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var urls []string
	for _, fh := range form.File["images"] {
		url, err := h.Images.Save(fh, uuid.NewString())
		if err != nil {
			log.Printf("item-create: image upload skipped: %v", err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

func validateItemReq(req itemReq) []string {
	return utils.ValidateItem(utils.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    strings.ToUpper(req.Category),
		Subcategory: req.Subcategory,
		Price:       req.Price,
		District:    req.Location.District,
		City:        req.Location.City,
	})
}

// buildItem assembles a new listing, filling contact info from the
// seller's account when the payload leaves it blank.
func buildItem(req itemReq, seller model.User) *model.Item {
	it := &model.Item{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.ToUpper(req.Category),
		Subcategory: req.Subcategory,
		Price:       req.Price,
		Currency:    req.Currency,
		Location:    req.Location,
		SellerID:    seller.ID,
		Status:      model.ItemStatusActive,
		Features:    req.Features,
		ContactInfo: req.ContactInfo,
	}
	if it.Currency == "" {
		it.Currency = "Frw"
	}
	if it.ContactInfo.Phone == "" {
		it.ContactInfo.Phone = seller.PhoneNumber
	}
	if it.ContactInfo.Email == "" {
		it.ContactInfo.Email = seller.Email
	}
	return it
}
