package baserow

// Cell shapes shared by every generated binding.

// File is one entry of a file field.
type File struct {
	Name        string               `json:"name"`
	VisibleName string               `json:"visible_name,omitempty"`
	URL         string               `json:"url,omitempty"`
	Thumbnails  map[string]Thumbnail `json:"thumbnails,omitempty"`
	Size        Uint                 `json:"size,omitzero"`
	MimeType    string               `json:"mime_type,omitempty"`
	IsImage     bool                 `json:"is_image,omitempty"`
	ImageWidth  Uint                 `json:"image_width,omitzero"`
	ImageHeight Uint                 `json:"image_height,omitzero"`
	UploadedAt  string               `json:"uploaded_at,omitempty"`
}

type Thumbnail struct {
	URL    string `json:"url"`
	Width  Uint   `json:"width,omitzero"`
	Height Uint   `json:"height,omitzero"`
}

// Collaborator is a workspace user referenced by collaborator and
// created_by / last_modified_by fields.
type Collaborator struct {
	ID   uint64 `json:"id"`
	Name string `json:"name,omitempty"`
}

// LookupValue is one element of a lookup or array formula cell. Value keeps
// whatever JSON shape the looked up field produces.
type LookupValue struct {
	ID    uint64 `json:"id"`
	Value any    `json:"value"`
}

// SelectValue is a select-typed formula result. Formulas carry no declared
// option list, so the choice is kept as returned.
type SelectValue struct {
	ID    uint64 `json:"id"`
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
}
