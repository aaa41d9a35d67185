package analyses

import "github.com/JaimeStill/color-lab/pkg/query"

var projection = query.NewProjectionMap("public", "analyses", "a").
	Project("id", "Id").
	Project("user_id", "UserId").
	Project("original_file_name", "OriginalFileName").
	Project("stored_file_name", "StoredFileName").
	Project("category", "Category").
	Project("confidence", "Confidence").
	Project("description", "Description").
	Project("palette", "Palette").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("image_width", "ImageWidth").
	Project("image_height", "ImageHeight").
	Project("analyzed_at", "AnalyzedAt")

var defaultSort = []query.SortField{
	{Field: "AnalyzedAt", Descending: true},
	{Field: "Id", Descending: true},
}

const returning = `id, user_id, original_file_name, stored_file_name, category, confidence,
	description, palette, content_type, size_bytes, image_width, image_height, analyzed_at`
