package mapping

// File is the root of a provider definitions file.
type File struct {
	// Version of the file format.
	Version string `yaml:"version,omitempty"`

	// Providers in catalog order.
	Providers []ProviderDef `yaml:"providers"`
}

// ProviderDef declares one provider.
type ProviderDef struct {
	Name string `yaml:"name"`

	// Ident lists the fields a record must carry, in order.
	Ident []FieldDef `yaml:"ident"`

	// Transforms is keyed by target schema name.
	Transforms map[string]TargetMapping `yaml:"transforms,omitempty"`
}

// FieldDef declares one identification field.
type FieldDef struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	Format     string   `yaml:"format,omitempty"`
	Values     []string `yaml:"values,omitempty"`
	Gt         *float64 `yaml:"gt,omitempty"`
	Gte        *float64 `yaml:"gte,omitempty"`
	Lt         *float64 `yaml:"lt,omitempty"`
	Lte        *float64 `yaml:"lte,omitempty"`
	AllowBlank bool     `yaml:"allow_blank,omitempty"`
}

// hasBounds reports whether any numeric bound is set.
func (f FieldDef) hasBounds() bool {
	return f.Gt != nil || f.Gte != nil || f.Lt != nil || f.Lte != nil
}

// TargetMapping defines how one target schema is populated.
type TargetMapping struct {
	// OneToOne maps source fields to target fields.
	// Example: { "booked": "timestamp", "payer": "from" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines explicit field mappings, applied after OneToOne.
	Fields []FieldMapping `yaml:"fields,omitempty"`
}

// FieldMapping populates one target field.
type FieldMapping struct {
	// Target is the target schema field.
	Target string `yaml:"target"`

	// Source is one ident field, or several joined with Join.
	// Examples: "booked", ["whole", "fraction"]
	Source StringOrArray `yaml:"source,omitempty"`

	// Join separates the renderings of several sources.
	Join *string `yaml:"join,omitempty"`

	// Default is assigned when Source is empty.
	Default *string `yaml:"default,omitempty"`
}

// StringOrArray is a list of strings that can also be written as a single
// string in YAML.
type StringOrArray []string
