package packets

type CreateTodoRequest struct {
	Title       string  `json:"title" binding:"required,max=500"`
	Description *string `json:"description"`
}

// nil fields are left untouched; omitnil (not omitempty) so a supplied empty
// title still fails validation instead of being skipped.
type UpdateTodoRequest struct {
	Title       *string `json:"title" binding:"omitnil,min=1,max=500"`
	Description *string `json:"description"`
}
