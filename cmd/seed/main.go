package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-archive/internal/config"
	"go-archive/internal/features/record"
	"go-archive/internal/features/report"
	"go-archive/internal/features/template"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds demo archival records and the built-in system templates. Safe
// to run repeatedly; existing data is left alone.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.DBName)

	if err := seedRecords(ctx, db); err != nil {
		log.Fatalf("seed records: %v", err)
	}
	if err := seedTemplates(ctx, db); err != nil {
		log.Fatalf("seed templates: %v", err)
	}

	log.Println("seed complete")
}

func seedRecords(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("archival_records")
	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("archival_records already has %d documents, skipping", n)
		return nil
	}

	now := time.Now().UTC()
	var docs []interface{}

	levels := []string{"fonds", "series", "file", "item"}
	statuses := []string{"published", "draft"}
	for i := 1; i <= 40; i++ {
		docs = append(docs, record.ArchivalRecord{
			Source: "information_object",
			Data: map[string]any{
				"id":                   i,
				"identifier":           fmt.Sprintf("AR-%04d", i),
				"title":                fmt.Sprintf("Correspondence series %d", i),
				"level_of_description": levels[i%len(levels)],
				"repository":           "City Archives",
				"publication_status":   statuses[i%len(statuses)],
				"scope_and_content":    "Letters, memoranda and administrative papers collected during the normal course of business.",
				"has_digital_object":   i%3 == 0,
				"child_count":          i % 7,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	for i := 1; i <= 15; i++ {
		docs = append(docs, record.ArchivalRecord{
			Source: "accession",
			Data: map[string]any{
				"id":                    i,
				"identifier":            fmt.Sprintf("ACC-2024-%03d", i),
				"title":                 fmt.Sprintf("Donation batch %d", i),
				"date":                  now.AddDate(0, -i, 0).Format("2006-01-02"),
				"source_of_acquisition": "Private donor",
				"received_extent_units": fmt.Sprintf("%d boxes", i%5+1),
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	ratings := []string{"good", "fair", "poor", "critical"}
	for i := 1; i <= 10; i++ {
		docs = append(docs, record.ArchivalRecord{
			Source: "condition_report",
			Data: map[string]any{
				"id":                    i,
				"information_object_id": i,
				"assessor":              "conservator",
				"assessment_date":       now.AddDate(0, 0, -i*7).Format("2006-01-02"),
				"overall_rating":        ratings[i%len(ratings)],
				"priority":              []string{"low", "medium", "high"}[i%3],
				"summary":               "Routine condition assessment.",
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		return err
	}
	log.Printf("inserted %d archival records", len(res.InsertedIDs))
	return nil
}

func seedTemplates(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("report_templates")
	n, err := coll.CountDocuments(ctx, bson.M{"scope": template.ScopeSystem})
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("system templates already present, skipping")
		return nil
	}

	now := time.Now().UTC()
	templates := []template.ReportTemplate{
		{
			ID:          primitive.NewObjectID(),
			Name:        "Published Descriptions",
			Description: "All published archival descriptions with their repository",
			Category:    "catalogue",
			Scope:       template.ScopeSystem,
			Source:      "information_object",
			Sections: []template.Section{
				{Type: report.BlockHeader, Title: "Published Descriptions", IsVisible: true, SortOrder: 1},
				{Type: report.BlockDataTable, Columns: []string{"identifier", "title", "level_of_description", "repository", "publication_status"}, IsVisible: true, SortOrder: 2},
			},
			CreatedBy: "system",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          primitive.NewObjectID(),
			Name:        "Accessions Register",
			Description: "Accessions received, with a running total",
			Category:    "acquisitions",
			Scope:       template.ScopeSystem,
			Source:      "accession",
			Sections: []template.Section{
				{Type: report.BlockHeader, Title: "Accessions Register", IsVisible: true, SortOrder: 1},
				{Type: report.BlockSummary, Title: "Total accessions", Metric: "count", IsVisible: true, SortOrder: 2},
				{Type: report.BlockDataTable, Columns: []string{"identifier", "title", "date", "source_of_acquisition"}, IsVisible: true, SortOrder: 3},
			},
			CreatedBy: "system",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          primitive.NewObjectID(),
			Name:        "Condition Survey",
			Description: "Condition reports grouped by overall rating",
			Category:    "preservation",
			Scope:       template.ScopeSystem,
			Source:      "condition_report",
			Sections: []template.Section{
				{Type: report.BlockHeader, Title: "Preservation Condition Survey", IsVisible: true, SortOrder: 1},
				{Type: report.BlockChart, ChartKind: "pie", GroupBy: "overall_rating", IsVisible: true, SortOrder: 2},
				{Type: report.BlockSeparator, IsVisible: true, SortOrder: 3},
				{Type: report.BlockDataTable, Columns: []string{"information_object_id", "assessment_date", "overall_rating", "priority"}, IsVisible: true, SortOrder: 4},
			},
			CreatedBy: "system",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	docs := make([]interface{}, len(templates))
	for i := range templates {
		docs[i] = templates[i]
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return err
	}
	log.Printf("inserted %d system templates", len(templates))
	return nil
}
