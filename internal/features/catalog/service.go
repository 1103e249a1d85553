package catalog

// CatalogService answers questions about the available data sources.
type CatalogService interface {
	ListSources() []DataSourceDescriptor
	GetSource(key string) (DataSourceDescriptor, error)
	ListColumns(sourceKey string) (map[ColumnGroup][]ColumnDescriptor, error)
	ListOperators(sourceKey, columnKey string) ([]Operator, error)
}

type catalogService struct {
	registry *Registry
}

func NewCatalogService(registry *Registry) CatalogService {
	return &catalogService{registry: registry}
}

func (s *catalogService) ListSources() []DataSourceDescriptor {
	return s.registry.List()
}

func (s *catalogService) GetSource(key string) (DataSourceDescriptor, error) {
	return s.registry.Get(key)
}

// ListColumns groups the source's columns by their origin bucket,
// hiding internal columns the UI should not offer.
func (s *catalogService) ListColumns(sourceKey string) (map[ColumnGroup][]ColumnDescriptor, error) {
	ds, err := s.registry.Get(sourceKey)
	if err != nil {
		return nil, err
	}

	grouped := make(map[ColumnGroup][]ColumnDescriptor)
	for _, c := range ds.Columns {
		if c.Hidden {
			continue
		}
		grouped[c.Group] = append(grouped[c.Group], c)
	}
	return grouped, nil
}

func (s *catalogService) ListOperators(sourceKey, columnKey string) ([]Operator, error) {
	if _, err := s.registry.Get(sourceKey); err != nil {
		return nil, err
	}
	c, ok := s.registry.Column(sourceKey, columnKey)
	if !ok {
		return nil, &UnknownColumnError{Source: sourceKey, Column: columnKey}
	}
	return OperatorsForType(c.Type), nil
}

// UnknownColumnError is returned when a column key does not exist on a source.
type UnknownColumnError struct {
	Source string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return "unknown column " + e.Column + " on data source " + e.Source
}
