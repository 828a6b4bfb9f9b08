package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Tree Errors (E100-E119)
	// ============================================

	"E101": {
		Category: CategoryTree,
		Message:  "Child index out of range",
		Detail:   "Children can only be inserted at a position between 0 and the current child count, inclusive.",
	},
	"E102": {
		Category: CategoryTree,
		Message:  "Child removal index out of range",
		Detail:   "The index does not address an existing child of this node.",
	},
	"E103": {
		Category: CategoryTree,
		Message:  "Node would become its own ancestor",
		Detail:   "A node cannot be inserted under itself.",
	},

	// ============================================
	// Config Errors (E200-E219)
	// ============================================

	"E201": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No shadow.json was found in the given directory.",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "shadow.json could not be parsed or holds invalid values.",
	},

	// ============================================
	// Script Errors (E300-E319)
	// ============================================

	"E301": {
		Category: CategoryScript,
		Message:  "Script could not be read",
		Detail:   "The batch script file does not exist or is unreadable.",
	},
	"E302": {
		Category: CategoryScript,
		Message:  "Script decode failed",
		Detail:   "The batch script is not valid YAML or JSON.",
	},
	"E303": {
		Category: CategoryScript,
		Message:  "Unknown script operation",
		Detail:   "Operations must be one of create, update or delete.",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
