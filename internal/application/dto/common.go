package dto

// PageRequest paginación para listados. Cursor (seq) tiene prioridad sobre
// Offset cuando viene definido: es estable bajo appends concurrentes.
type PageRequest struct {
	Limit  int   `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int   `query:"offset" validate:"omitempty,min=0"`
	Cursor int64 `query:"cursor" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas. NextCursor es el seq del
// último elemento devuelto; pasarlo como cursor trae la página siguiente.
type PageResponse struct {
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	NextCursor int64 `json:"next_cursor,omitempty"`
	Total      int   `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
