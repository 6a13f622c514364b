package domain

// Metadata describes the page window of a list response.
type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

// NewMetadata returns nil when there are no records, which callers render as
// an empty metadata object.
func NewMetadata(totalRecords, page, pageSize int) *Metadata {
	if totalRecords == 0 {
		return nil
	}

	return &Metadata{
		CurrentPage:  page,
		FirstPage:    1,
		LastPage:     (totalRecords + pageSize - 1) / pageSize,
		PageSize:     pageSize,
		TotalRecords: totalRecords,
	}
}
