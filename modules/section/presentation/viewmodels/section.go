package viewmodels

type Section struct {
	ID           string `json:"id"`
	TemplateID   string `json:"templateId"`
	Name         string `json:"name"`
	Introduction string `json:"introduction"`
	Requirements string `json:"requirements"`
	Guidance     string `json:"guidance"`
	DisplayOrder int    `json:"displayOrder"`
	BestPractice bool   `json:"bestPractice"`
}

// Tag is one row of the tag picker; every catalog tag gets a row.
type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Checked     bool   `json:"checked"`
	ToggleURL   string `json:"toggleUrl"`
}

// Change is a pending edit relative to the loaded section, as a JSON Patch
// operation.
type Change struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

type DeleteDialog struct {
	Open         bool   `json:"open"`
	InFlight     bool   `json:"inFlight"`
	ConfirmLabel string `json:"confirmLabel"`
}

type SectionSession struct {
	SessionID    string            `json:"sessionId"`
	Phase        string            `json:"phase"`
	Operation    string            `json:"operation"`
	Interactive  bool              `json:"interactive"`
	Dirty        bool              `json:"dirty"`
	Section      Section           `json:"section"`
	Tags         []Tag             `json:"tags"`
	FieldErrors  map[string]string `json:"fieldErrors"`
	GlobalErrors []string          `json:"globalErrors"`
	DeleteDialog DeleteDialog      `json:"deleteDialog"`
	Changes      []Change          `json:"changes"`
	EditPath     string            `json:"editPath"`
	TemplatePath string            `json:"templatePath"`
}
