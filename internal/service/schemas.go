package service

import "go_mes/internal/patch"

// Patchable field schemas, one per entity type. These are the only
// routes from request field names to SQL columns: anything not declared
// here is ignored by the update engine.

var commonSheetFields = []patch.Field{
	{Name: "materialCode", Column: "material_code", Kind: patch.String},
	{Name: "status", Column: "status", Kind: patch.String},
	{Name: "supplier", Column: "supplier", Kind: patch.String},
	{Name: "lotNo", Column: "lot_no", Kind: patch.String},
	{Name: "ulFileNo", Column: "ul_file_no", Kind: patch.String},
	{Name: "remark", Column: "remark", Kind: patch.String},
}

var coreSheetSchema = patch.NewSchema(append(commonSheetFields,
	patch.Field{Name: "thickness", Column: "thickness", Kind: patch.Decimal},
	patch.Field{Name: "copperFoil", Column: "copper_foil", Kind: patch.String},
	patch.Field{Name: "tg", Column: "tg", Kind: patch.Integer},
	patch.Field{Name: "dk", Column: "dk", Kind: patch.Decimal},
	patch.Field{Name: "df", Column: "df", Kind: patch.Decimal},
)...)

var ppSheetSchema = patch.NewSchema(append(commonSheetFields,
	patch.Field{Name: "thickness", Column: "thickness", Kind: patch.Decimal},
	patch.Field{Name: "resinContent", Column: "resin_content", Kind: patch.Decimal},
	patch.Field{Name: "resinFlow", Column: "resin_flow", Kind: patch.Decimal},
	patch.Field{Name: "gelTime", Column: "gel_time", Kind: patch.Integer},
)...)

var newSheetSchema = patch.NewSchema(append(commonSheetFields,
	patch.Field{Name: "qualificationDate", Column: "qualification_date", Kind: patch.Date},
	patch.Field{Name: "trialLotQty", Column: "trial_lot_qty", Kind: patch.Integer},
)...)

var documentColumnSchema = patch.NewSchema(
	patch.Field{Name: "docCode", Column: "doc_code", Kind: patch.String},
	patch.Field{Name: "partName", Column: "part_name", Kind: patch.String},
	patch.Field{Name: "customerCode", Column: "customer_code", Kind: patch.String},
	patch.Field{Name: "warpage", Column: "warpage", Kind: patch.Decimal},
	patch.Field{Name: "dimensionTolerance", Column: "dimension_tolerance", Kind: patch.Decimal},
	patch.Field{Name: "designReviewed", Column: "design_reviewed", Kind: patch.Flag},
	patch.Field{Name: "ciReviewed", Column: "ci_reviewed", Kind: patch.Flag},
	patch.Field{Name: "reviewDeadline", Column: "review_deadline", Kind: patch.Date},
)

// sheetSchemas maps a material kind to its schema.
var sheetSchemas = map[string]*patch.Schema{
	"core": coreSheetSchema,
	"pp":   ppSheetSchema,
	"new":  newSheetSchema,
}

// SheetSchemaFor returns the schema for a material kind.
func SheetSchemaFor(kind string) (*patch.Schema, bool) {
	s, ok := sheetSchemas[kind]
	return s, ok
}
