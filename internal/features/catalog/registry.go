package catalog

import (
	"sort"

	"go-archive/internal/common/apperr"
)

// Registry exposes the fixed set of archival data sources a report can
// query. Sources are compiled in; there is no runtime registration.
type Registry struct {
	sources map[string]DataSourceDescriptor
	order   []string
}

func NewRegistry() *Registry {
	r := &Registry{sources: make(map[string]DataSourceDescriptor)}
	for _, ds := range builtinSources() {
		r.sources[ds.Key] = ds
		r.order = append(r.order, ds.Key)
	}
	sort.Strings(r.order)
	return r
}

// List returns every data source descriptor, ordered by key.
func (r *Registry) List() []DataSourceDescriptor {
	out := make([]DataSourceDescriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.sources[key])
	}
	return out
}

// Get returns one descriptor or an UnknownDataSourceError.
func (r *Registry) Get(key string) (DataSourceDescriptor, error) {
	ds, ok := r.sources[key]
	if !ok {
		return DataSourceDescriptor{}, &apperr.UnknownDataSourceError{Key: key}
	}
	return ds, nil
}

// Has reports whether key names a known data source.
func (r *Registry) Has(key string) bool {
	_, ok := r.sources[key]
	return ok
}

// Column looks up a column descriptor on a source.
func (r *Registry) Column(sourceKey, columnKey string) (ColumnDescriptor, bool) {
	ds, ok := r.sources[sourceKey]
	if !ok {
		return ColumnDescriptor{}, false
	}
	for _, col := range ds.Columns {
		if col.Key == columnKey {
			return col, true
		}
	}
	return ColumnDescriptor{}, false
}

func col(key, label string, t ColumnType, g ColumnGroup, sortable bool) ColumnDescriptor {
	return ColumnDescriptor{Key: key, Label: label, Type: t, Group: g, Sortable: sortable}
}

func searchable(c ColumnDescriptor) ColumnDescriptor {
	c.Searchable = true
	return c
}

func hidden(c ColumnDescriptor) ColumnDescriptor {
	c.Hidden = true
	return c
}

func timestamps() []ColumnDescriptor {
	return []ColumnDescriptor{
		col("created_at", "Created At", TypeDatetime, GroupObject, true),
		col("updated_at", "Updated At", TypeDatetime, GroupObject, true),
	}
}

func builtinSources() []DataSourceDescriptor {
	return []DataSourceDescriptor{
		{
			Key:         "information_object",
			Label:       "Archival Descriptions",
			Description: "Hierarchical descriptions of archival material",
			Icon:        "archive",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("identifier", "Identifier", TypeString, GroupMain, true),
				col("level_of_description", "Level of Description", TypeTerm, GroupMain, true),
				col("repository", "Repository", TypeString, GroupMain, true),
				col("parent_id", "Parent ID", TypeInteger, GroupMain, true),
				hidden(col("lft", "Left Value", TypeInteger, GroupMain, true)),
				col("source_culture", "Source Culture", TypeString, GroupMain, true),
				searchable(col("title", "Title", TypeString, GroupI18n, true)),
				col("alternate_title", "Alternate Title", TypeString, GroupI18n, true),
				col("extent_and_medium", "Extent and Medium", TypeText, GroupI18n, false),
				col("archival_history", "Archival History", TypeText, GroupI18n, false),
				col("acquisition", "Acquisition", TypeText, GroupI18n, false),
				searchable(col("scope_and_content", "Scope and Content", TypeText, GroupI18n, false)),
				col("access_conditions", "Access Conditions", TypeText, GroupI18n, false),
				col("reproduction_conditions", "Reproduction Conditions", TypeText, GroupI18n, false),
				col("finding_aids", "Finding Aids", TypeText, GroupI18n, false),
				col("publication_status", "Publication Status", TypeStatus, GroupComputed, true),
				col("has_digital_object", "Has Digital Object", TypeBoolean, GroupComputed, false),
				col("child_count", "Number of Children", TypeInteger, GroupComputed, true),
			}, timestamps()...),
			DefaultColumns: []string{"identifier", "title", "level_of_description", "repository", "publication_status"},
			DefaultSort:    "title",
		},
		{
			Key:         "actor",
			Label:       "Authority Records",
			Description: "People, families and organizations",
			Icon:        "users",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("entity_type", "Entity Type", TypeTerm, GroupMain, true),
				col("description_identifier", "Description Identifier", TypeString, GroupMain, false),
				searchable(col("authorized_form_of_name", "Authorized Name", TypeString, GroupI18n, true)),
				col("dates_of_existence", "Dates of Existence", TypeString, GroupI18n, false),
				col("history", "History", TypeText, GroupI18n, false),
				col("places", "Places", TypeText, GroupI18n, false),
				col("legal_status", "Legal Status", TypeText, GroupI18n, false),
				col("functions", "Functions", TypeText, GroupI18n, false),
			}, timestamps()...),
			DefaultColumns: []string{"authorized_form_of_name", "entity_type", "dates_of_existence"},
			DefaultSort:    "authorized_form_of_name",
		},
		{
			Key:         "repository",
			Label:       "Repositories",
			Description: "Institutions holding archival material",
			Icon:        "building",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("identifier", "Identifier", TypeString, GroupMain, true),
				col("desc_status", "Description Status", TypeTerm, GroupMain, false),
				searchable(col("authorized_form_of_name", "Name", TypeString, GroupI18n, true)),
				col("geocultural_context", "Geocultural Context", TypeText, GroupI18n, false),
				col("collecting_policies", "Collecting Policies", TypeText, GroupI18n, false),
				col("holdings", "Holdings", TypeText, GroupI18n, false),
				col("opening_times", "Opening Times", TypeText, GroupI18n, false),
				col("access_conditions", "Access Conditions", TypeText, GroupI18n, false),
				col("holdings_count", "Number of Holdings", TypeInteger, GroupComputed, true),
			}, timestamps()...),
			DefaultColumns: []string{"identifier", "authorized_form_of_name", "holdings_count"},
			DefaultSort:    "authorized_form_of_name",
		},
		{
			Key:         "accession",
			Label:       "Accessions",
			Description: "Accessioned acquisitions of material",
			Icon:        "inbox",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("identifier", "Identifier", TypeString, GroupMain, true),
				col("date", "Accession Date", TypeDate, GroupMain, true),
				searchable(col("title", "Title", TypeString, GroupI18n, true)),
				col("archival_history", "Archival History", TypeText, GroupI18n, false),
				col("scope_and_content", "Scope and Content", TypeText, GroupI18n, false),
				col("appraisal", "Appraisal", TypeText, GroupI18n, false),
				col("received_extent_units", "Received Extent Units", TypeString, GroupI18n, false),
				col("processing_notes", "Processing Notes", TypeText, GroupI18n, false),
				col("source_of_acquisition", "Source of Acquisition", TypeText, GroupI18n, false),
				col("location_information", "Location Information", TypeText, GroupI18n, false),
			}, timestamps()...),
			DefaultColumns: []string{"identifier", "title", "date"},
			DefaultSort:    "date",
		},
		{
			Key:         "physical_object",
			Label:       "Physical Storage",
			Description: "Boxes, shelves and physical containers",
			Icon:        "package",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("type", "Type", TypeTerm, GroupMain, true),
				searchable(col("name", "Name", TypeString, GroupI18n, true)),
				col("description", "Description", TypeText, GroupI18n, false),
				col("location", "Location", TypeString, GroupI18n, true),
				col("linked_descriptions_count", "Linked Descriptions", TypeInteger, GroupComputed, true),
			}, timestamps()...),
			DefaultColumns: []string{"name", "type", "location"},
			DefaultSort:    "name",
		},
		{
			Key:         "digital_object",
			Label:       "Digital Objects",
			Description: "Digital surrogates and born-digital files",
			Icon:        "file-digital",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("name", "Filename", TypeString, GroupMain, true),
				col("usage", "Usage", TypeTerm, GroupMain, true),
				col("media_type", "Media Type", TypeTerm, GroupMain, true),
				col("mime_type", "MIME Type", TypeString, GroupMain, true),
				col("byte_size", "File Size (bytes)", TypeInteger, GroupMain, true),
				col("checksum", "Checksum", TypeString, GroupMain, false),
				col("path", "Path", TypeString, GroupMain, false),
			}, timestamps()...),
			DefaultColumns: []string{"name", "media_type", "mime_type", "byte_size"},
			DefaultSort:    "name",
		},
		{
			Key:         "donor",
			Label:       "Donors",
			Description: "Donors and their contact details",
			Icon:        "gift",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				searchable(col("authorized_form_of_name", "Name", TypeString, GroupI18n, true)),
				col("contact_person", "Contact Person", TypeString, GroupMain, true),
				col("email", "Email", TypeString, GroupMain, true),
				col("telephone", "Telephone", TypeString, GroupMain, false),
				col("street_address", "Street Address", TypeText, GroupMain, false),
				col("postal_code", "Postal Code", TypeString, GroupMain, false),
				col("country_code", "Country", TypeString, GroupMain, true),
			}, timestamps()...),
			DefaultColumns: []string{"authorized_form_of_name", "contact_person", "email"},
			DefaultSort:    "authorized_form_of_name",
		},
		{
			Key:         "condition_report",
			Label:       "Condition Reports",
			Description: "Preservation assessments of holdings",
			Icon:        "clipboard",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("information_object_id", "Description", TypeInteger, GroupMain, true),
				col("assessor", "Assessor", TypeString, GroupMain, true),
				col("assessment_date", "Assessment Date", TypeDate, GroupMain, true),
				col("context", "Context", TypeEnum, GroupMain, true),
				col("overall_rating", "Overall Rating", TypeEnum, GroupMain, true),
				col("priority", "Priority", TypeEnum, GroupMain, true),
				col("summary", "Summary", TypeText, GroupMain, false),
				col("recommendations", "Recommendations", TypeText, GroupMain, false),
				col("next_check_date", "Next Check Date", TypeDate, GroupMain, true),
			}, timestamps()...),
			DefaultColumns: []string{"information_object_id", "assessment_date", "overall_rating", "priority"},
			DefaultSort:    "assessment_date",
		},
		{
			Key:         "privacy_breach",
			Label:       "Privacy Breaches",
			Description: "Data protection breach register",
			Icon:        "shield-alert",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("reference_number", "Reference", TypeString, GroupMain, true),
				col("jurisdiction", "Jurisdiction", TypeEnum, GroupMain, true),
				col("breach_type", "Breach Type", TypeEnum, GroupMain, true),
				col("severity", "Severity", TypeEnum, GroupMain, true),
				col("status", "Status", TypeEnum, GroupMain, true),
				col("detected_date", "Detected Date", TypeDatetime, GroupMain, true),
				col("contained_date", "Contained Date", TypeDatetime, GroupMain, true),
				col("resolved_date", "Resolved Date", TypeDatetime, GroupMain, true),
				col("data_subjects_affected", "Subjects Affected", TypeInteger, GroupMain, true),
				col("notification_required", "Notification Required", TypeBoolean, GroupMain, false),
				col("regulator_notified", "Regulator Notified", TypeBoolean, GroupMain, false),
				col("risk_to_rights", "Risk to Rights", TypeEnum, GroupMain, true),
			}, timestamps()...),
			DefaultColumns: []string{"reference_number", "breach_type", "severity", "status", "detected_date"},
			DefaultSort:    "detected_date",
		},
		{
			Key:         "heritage_asset",
			Label:       "Heritage Assets",
			Description: "Financially recognized heritage assets",
			Icon:        "landmark",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("information_object_id", "Description", TypeInteger, GroupMain, true),
				col("recognition_status", "Recognition Status", TypeEnum, GroupMain, true),
				col("recognition_date", "Recognition Date", TypeDate, GroupMain, true),
				col("acquisition_method", "Acquisition Method", TypeEnum, GroupMain, true),
				col("acquisition_date", "Acquisition Date", TypeDate, GroupMain, true),
				col("acquisition_cost", "Acquisition Cost", TypeCurrency, GroupMain, true),
				col("current_carrying_amount", "Current Value", TypeCurrency, GroupMain, true),
				col("last_valuation_date", "Last Valuation", TypeDate, GroupMain, true),
				col("last_valuation_amount", "Valuation Amount", TypeCurrency, GroupMain, true),
				col("heritage_significance", "Significance", TypeEnum, GroupMain, true),
				col("condition_rating", "Condition", TypeEnum, GroupMain, true),
				col("insurance_value", "Insurance Value", TypeCurrency, GroupMain, true),
				col("current_location", "Location", TypeString, GroupMain, true),
			}, timestamps()...),
			DefaultColumns: []string{"information_object_id", "recognition_status", "current_carrying_amount", "condition_rating"},
			DefaultSort:    "recognition_date",
		},
		{
			Key:         "rights_record",
			Label:       "Rights Records",
			Description: "Copyright and licensing statements",
			Icon:        "scale",
			Columns: append([]ColumnDescriptor{
				col("id", "ID", TypeInteger, GroupMain, true),
				col("object_id", "Object", TypeInteger, GroupMain, true),
				col("basis", "Rights Basis", TypeEnum, GroupMain, true),
				col("copyright_status", "Copyright Status", TypeEnum, GroupMain, true),
				col("copyright_holder", "Copyright Holder", TypeString, GroupMain, true),
				col("copyright_jurisdiction", "Jurisdiction", TypeString, GroupMain, false),
				col("license_identifier", "License", TypeString, GroupMain, false),
				col("donor_name", "Donor", TypeString, GroupMain, false),
				col("start_date", "Start Date", TypeDate, GroupMain, true),
				col("end_date", "End Date", TypeDate, GroupMain, true),
			}, timestamps()...),
			DefaultColumns: []string{"object_id", "basis", "copyright_status", "copyright_holder"},
			DefaultSort:    "start_date",
		},
	}
}
