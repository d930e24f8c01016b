package postgresql

// migrations returns the catalog schema migrations keyed by version.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflow_templates (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				product_code VARCHAR(16) NOT NULL,
				event_code VARCHAR(16) NOT NULL,
				trigger_types TEXT[] NOT NULL,
				status VARCHAR(16) NOT NULL DEFAULT 'inactive',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_templates_lookup
				ON workflow_templates (product_code, event_code, status);

			CREATE TABLE IF NOT EXISTS stages (
				id UUID PRIMARY KEY,
				template_id UUID NOT NULL REFERENCES workflow_templates(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				stage_order INTEGER NOT NULL,
				UNIQUE (template_id, name)
			);

			CREATE INDEX IF NOT EXISTS idx_stages_template
				ON stages (template_id, stage_order);

			CREATE TABLE IF NOT EXISTS stage_fields (
				id UUID PRIMARY KEY,
				stage_id UUID NOT NULL REFERENCES stages(id) ON DELETE CASCADE,
				field_id VARCHAR(255) NOT NULL,
				pane VARCHAR(255) NOT NULL,
				section VARCHAR(255) NOT NULL,
				field_order INTEGER NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_stage_fields_stage
				ON stage_fields (stage_id, field_order);

			CREATE TABLE IF NOT EXISTS field_actions (
				field_id VARCHAR(255) PRIMARY KEY,
				is_computed BOOLEAN NOT NULL DEFAULT FALSE,
				computed_formula TEXT,
				dropdown_filter_source VARCHAR(255),
				triggers JSONB NOT NULL DEFAULT '[]'::jsonb,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
	}
}
