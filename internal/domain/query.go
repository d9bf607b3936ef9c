package domain

type SortKey string

const (
	SortByDate      SortKey = "date"
	SortByUrgency   SortKey = "urgency"
	SortByRequester SortKey = "requester"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// AgreementQuery is the filter/sort surface over agreement listings. Empty
// Search matches everything; empty or "all" Status/Urgency disable the
// respective filter.
type AgreementQuery struct {
	Search    string    `json:"search" query:"search"`
	Status    string    `json:"status" query:"status"`
	Urgency   string    `json:"urgency" query:"urgency"`
	SortBy    SortKey   `json:"sort_by" query:"sort_by"`
	SortOrder SortOrder `json:"sort_order" query:"sort_order"`
}

func (q *AgreementQuery) Normalize() {
	if q.SortBy == "" {
		q.SortBy = SortByDate
	}
	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
	if q.Status == "all" {
		q.Status = ""
	}
	if q.Urgency == "all" {
		q.Urgency = ""
	}
}

// NotificationQuery filters the notification feed. Empty or "all" Kind
// disables the kind filter; UnreadOnly keeps unread entries only. Order is
// fixed newest-first by the projection, so there is no sort surface here.
type NotificationQuery struct {
	Kind       string `json:"kind" query:"kind"`
	UnreadOnly bool   `json:"unread_only" query:"unread_only"`
}

func (q *NotificationQuery) Normalize() {
	if q.Kind == "all" {
		q.Kind = ""
	}
}

type PaginationParams struct {
	Page     int `json:"page" query:"page"`
	PageSize int `json:"page_size" query:"page_size"`
}

func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func DefaultPagination() PaginationParams {
	return PaginationParams{Page: 1, PageSize: 20}
}

type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPaginatedResponse[T any](data []T, page, pageSize int, totalItems int64) PaginatedResponse[T] {
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))

	return PaginatedResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
