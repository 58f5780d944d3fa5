// Package fopbridge provides support for query paging with unified
// response types.
package fopbridge

import (
	"encoding/json"

	"github.com/companionhealth/companion/core/scaffolding/fop"
)

// RecordID is the data model used when returning a create/update ID.
type RecordID struct {
	ID string `json:"id"`
}

func (r RecordID) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

// CodeResponse provides a standard response with code and message.
type CodeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c CodeResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(c)
	return data, "application/json", err
}

// RecordResponse wraps a single record.
type RecordResponse[T any] struct {
	Record T `json:"record"`
}

func NewRecordResponse[T any](record T) RecordResponse[T] {
	return RecordResponse[T]{Record: record}
}

func (r RecordResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

// RecordsResponse wraps a plain, non-paginated slice of records.
type RecordsResponse[T any] struct {
	Records []T `json:"records"`
}

func NewRecordsResponse[T any](records []T) RecordsResponse[T] {
	return RecordsResponse[T]{Records: records}
}

func (r RecordsResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

// PageInfo describes the page of a cursor-paginated response.
type PageInfo struct {
	HasNext    bool    `json:"hasNext"`
	Limit      int     `json:"limit,omitempty"`
	NextCursor *string `json:"nextCursor,omitempty"`
	PageTotal  int     `json:"pageTotal"`
}

// PaginatedResponse is the response type for cursor-paginated lists.
type PaginatedResponse[T any] struct {
	Records  []T      `json:"records"`
	PageInfo PageInfo `json:"pageInfo"`
}

func (p PaginatedResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(p)
	return data, "application/json", err
}

// NewPaginatedResponse builds the page envelope. nextCursor is the opaque
// cursor of the last record, supplied by the store layer; it is only set
// when the page is full.
func NewPaginatedResponse[T any](records []T, page fop.PageStringCursor, nextCursor string) PaginatedResponse[T] {
	pageInfo := PageInfo{
		HasNext:   len(records) == page.Limit && nextCursor != "",
		Limit:     page.Limit,
		PageTotal: len(records),
	}
	if pageInfo.HasNext {
		pageInfo.NextCursor = &nextCursor
	}

	return PaginatedResponse[T]{
		Records:  records,
		PageInfo: pageInfo,
	}
}
