package dto

// DateLayout formato de fechas de calendario en requests y respuestas.
const DateLayout = "2006-01-02"

// MaxPage tope de página; con PerPage <= 100 el offset nunca desborda.
const MaxPage = 1_000_000

// PageRequest paginación para listados.
type PageRequest struct {
	Page    int `query:"page" validate:"omitempty,min=1,max=1000000"`
	PerPage int `query:"per_page" validate:"omitempty,min=1,max=100"`
}

// DefaultPage aplica valores por defecto si Page/PerPage son cero y acota ambos.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// Offset posición del primer elemento de la página; 0 fuera de rango.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.PerPage <= 0 || p.Page > MaxPage || p.PerPage > 100 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula totalPages (0 si no hay elementos).
func NewPageResponse(p PageRequest, total int) PageResponse {
	pages := 0
	if p.PerPage > 0 {
		pages = (total + p.PerPage - 1) / p.PerPage
	}
	return PageResponse{Page: p.Page, PerPage: p.PerPage, Total: total, TotalPages: pages}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
