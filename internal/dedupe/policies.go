package dedupe

// Field names shared by the entity policies and the services that build
// candidate Fields.
const (
	FieldName         = "name"
	FieldProductTypes = "productTypes"
	FieldSubtypes     = "subtypes"

	FieldManufacturer = "manufacturer"
	FieldProduct      = "product"
	FieldProductType  = "productType"
	FieldFromLocation = "fromLocation"
	FieldToLocation   = "toLocation"
	FieldQuantity     = "quantity"

	FieldTitle      = "title"
	FieldAssignedTo = "assignedTo"
	FieldDate       = "date"
)

// Clause names reported in Match.Clause.
const (
	ClauseNameAndProduct = "name_and_product"
	ClauseNameAndSubtype = "name_and_subtype"
	ClauseNameOnly       = "name_only"
	ClauseAllFields      = "all_fields"
	ClauseSameTask       = "same_task"
)

// Thresholds holds the tunable cut-offs of the built-in policies.
type Thresholds struct {
	Name              float64 `mapstructure:"name" yaml:"name"`
	NameOnly          float64 `mapstructure:"name_only" yaml:"name_only"`
	Item              float64 `mapstructure:"item" yaml:"item"`
	OrderField        float64 `mapstructure:"order_field" yaml:"order_field"`
	QuantityTolerance float64 `mapstructure:"quantity_tolerance" yaml:"quantity_tolerance"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Name:              0.85,
		NameOnly:          0.95,
		Item:              0.85,
		OrderField:        0.85,
		QuantityTolerance: 0.01,
	}
}

// WithDefaults fills zero values from DefaultThresholds.
func (t Thresholds) WithDefaults() Thresholds {
	def := DefaultThresholds()
	if t.Name == 0 {
		t.Name = def.Name
	}
	if t.NameOnly == 0 {
		t.NameOnly = def.NameOnly
	}
	if t.Item == 0 {
		t.Item = def.Item
	}
	if t.OrderField == 0 {
		t.OrderField = def.OrderField
	}
	if t.QuantityTolerance == 0 {
		t.QuantityTolerance = def.QuantityTolerance
	}
	return t
}

// ManufacturerPolicy flags a manufacturer whose name is close to an existing
// one and that offers a similar product type, or whose name alone is nearly
// identical.
func ManufacturerPolicy(t Thresholds) Policy {
	return Policy{
		Entity:     "manufacturer",
		Combinator: Any,
		Clauses: []Clause{
			{
				Name:       ClauseNameAndProduct,
				Combinator: All,
				Rules: []Rule{
					{Field: FieldName, Mode: ModeFuzzy, Threshold: t.Name},
					{Field: FieldProductTypes, Mode: ModeFuzzy, Threshold: t.Item},
				},
			},
			{
				Name:       ClauseNameOnly,
				Combinator: All,
				Rules: []Rule{
					{Field: FieldName, Mode: ModeFuzzy, Threshold: t.NameOnly},
				},
			},
		},
	}
}

// ProductPolicy mirrors ManufacturerPolicy over product subtypes.
func ProductPolicy(t Thresholds) Policy {
	return Policy{
		Entity:     "product",
		Combinator: Any,
		Clauses: []Clause{
			{
				Name:       ClauseNameAndSubtype,
				Combinator: All,
				Rules: []Rule{
					{Field: FieldName, Mode: ModeFuzzy, Threshold: t.Name},
					{Field: FieldSubtypes, Mode: ModeFuzzy, Threshold: t.Item},
				},
			},
			{
				Name:       ClauseNameOnly,
				Combinator: All,
				Rules: []Rule{
					{Field: FieldName, Mode: ModeFuzzy, Threshold: t.NameOnly},
				},
			},
		},
	}
}

// OrderPolicy requires every routing field to be similar and the quantity
// to be equal within tolerance.
func OrderPolicy(t Thresholds) Policy {
	return Policy{
		Entity:     "order",
		Combinator: All,
		Clauses: []Clause{
			{
				Name:       ClauseAllFields,
				Combinator: All,
				Rules: []Rule{
					{Field: FieldManufacturer, Mode: ModeFuzzy, Threshold: t.OrderField},
					{Field: FieldProduct, Mode: ModeFuzzy, Threshold: t.OrderField},
					{Field: FieldProductType, Mode: ModeFuzzy, Threshold: t.OrderField},
					{Field: FieldFromLocation, Mode: ModeFuzzy, Threshold: t.OrderField},
					{Field: FieldToLocation, Mode: ModeFuzzy, Threshold: t.OrderField},
					{Field: FieldQuantity, Mode: ModeNumeric, Tolerance: t.QuantityTolerance},
				},
			},
		},
	}
}

// TaskPolicy only catches exact repeats: same title and assignee after
// normalization, due on the same calendar day.
func TaskPolicy() Policy {
	return Policy{
		Entity:     "task",
		Combinator: All,
		Clauses: []Clause{
			{
				Name:       ClauseSameTask,
				Combinator: All,
				Rules: []Rule{
					{Field: FieldTitle, Mode: ModeExact},
					{Field: FieldAssignedTo, Mode: ModeExact},
					{Field: FieldDate, Mode: ModeSameDay},
				},
			},
		},
	}
}
