package catalog

// ColumnType describes how a column's raw value should be interpreted
// when filtering, sorting and rendering.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeText     ColumnType = "text"
	TypeInteger  ColumnType = "integer"
	TypeFloat    ColumnType = "float"
	TypeBoolean  ColumnType = "boolean"
	TypeDate     ColumnType = "date"
	TypeDatetime ColumnType = "datetime"
	TypeEnum     ColumnType = "enum"
	TypeTerm     ColumnType = "term"
	TypeStatus   ColumnType = "status"
	TypeCurrency ColumnType = "currency"
)

// ColumnGroup buckets columns the way the catalogue UI presents them.
type ColumnGroup string

const (
	GroupMain     ColumnGroup = "main"
	GroupI18n     ColumnGroup = "i18n"
	GroupObject   ColumnGroup = "object"
	GroupComputed ColumnGroup = "computed"
)

// ColumnDescriptor is one selectable column of a data source.
type ColumnDescriptor struct {
	Key        string      `json:"key" bson:"key"`
	Label      string      `json:"label" bson:"label"`
	Type       ColumnType  `json:"type" bson:"type"`
	Group      ColumnGroup `json:"group" bson:"group"`
	Sortable   bool        `json:"sortable" bson:"sortable"`
	Searchable bool        `json:"searchable,omitempty" bson:"searchable,omitempty"`
	Hidden     bool        `json:"hidden,omitempty" bson:"hidden,omitempty"`
}

// DataSourceDescriptor is one queryable entity of the archive.
type DataSourceDescriptor struct {
	Key            string             `json:"key" bson:"key"`
	Label          string             `json:"label" bson:"label"`
	Description    string             `json:"description" bson:"description"`
	Icon           string             `json:"icon" bson:"icon"`
	Columns        []ColumnDescriptor `json:"columns" bson:"columns"`
	DefaultColumns []string           `json:"default_columns" bson:"default_columns"`
	DefaultSort    string             `json:"default_sort" bson:"default_sort"`
}

// Operator is a filter comparison supported by the query engine.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpStartsWith  Operator = "starts_with"
	OpEndsWith    Operator = "ends_with"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpBetween     Operator = "between"
	OpIsNull      Operator = "is_null"
	OpIsNotNull   Operator = "is_not_null"
	OpIn          Operator = "in"
)

// OperatorsForType returns the comparisons that make sense for a column type.
func OperatorsForType(t ColumnType) []Operator {
	switch t {
	case TypeInteger, TypeFloat, TypeCurrency:
		return []Operator{OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpBetween, OpIsNull, OpIsNotNull, OpIn}
	case TypeDate, TypeDatetime:
		return []Operator{OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpBetween, OpIsNull, OpIsNotNull}
	case TypeBoolean:
		return []Operator{OpEquals, OpNotEquals, OpIsNull, OpIsNotNull}
	case TypeEnum, TypeTerm, TypeStatus:
		return []Operator{OpEquals, OpNotEquals, OpIn, OpIsNull, OpIsNotNull}
	default:
		return []Operator{OpEquals, OpNotEquals, OpContains, OpStartsWith, OpEndsWith, OpIsNull, OpIsNotNull, OpIn}
	}
}

// ValidOperator reports whether op is a recognised comparison.
func ValidOperator(op Operator) bool {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpStartsWith, OpEndsWith,
		OpGreaterThan, OpLessThan, OpBetween, OpIsNull, OpIsNotNull, OpIn:
		return true
	}
	return false
}
