package response

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드 (예: 400, 404, 500)
	ResultCode int `json:"result_code"`

	// Message 에러 메시지
	Message string `json:"message"`
}

// ListResponse 목록 조회 응답
type ListResponse[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}
