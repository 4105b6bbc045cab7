package dynamic

// ToolConfig represents the YAML definition of a named query exposed as a tool
type ToolConfig struct {
	// Name is the unique tool identifier (e.g., "count-nodes-by-label")
	Name string `yaml:"name"`

	// Description provides the operational description of the tool
	Description string `yaml:"description"`

	// Intent tells agents WHEN to use this tool
	Intent string `yaml:"intent,omitempty"`

	// Cypher is the parameterized query executed when the tool is called
	Cypher string `yaml:"cypher"`

	// Write marks queries that modify the graph. They run as a one-statement
	// batch, bypass the result cache and are hidden in read-only mode.
	Write bool `yaml:"write,omitempty"`

	// Parameters defines typed input parameters for the query
	Parameters []ParameterConfig `yaml:"parameters,omitempty"`

	// Category is derived from the folder structure (e.g., "graph")
	// This is an internal field, not from YAML
	Category string `yaml:"-"`
}

// ParameterConfig defines a typed input parameter
type ParameterConfig struct {
	// Name is the parameter identifier, bound as $name in the query
	Name string `yaml:"name"`

	// Type is the JSON Schema type (string, integer, number, boolean, array, object)
	Type string `yaml:"type"`

	// Description explains the parameter's purpose
	Description string `yaml:"description,omitempty"`

	// Default value (type depends on Type field)
	Default any `yaml:"default,omitempty"`

	// Required indicates if this parameter must be provided
	Required bool `yaml:"required,omitempty"`
}
