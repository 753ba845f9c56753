package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Workflow documents are stored whole; the engine works on the full graph.
			CREATE TABLE workflows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				active BOOLEAN NOT NULL DEFAULT false,
				document JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflows_name ON workflows(name);
			CREATE INDEX idx_workflows_deleted_at ON workflows(deleted_at);
		`,
		2: `
			-- Node count and type list back workflow listings without decoding documents.
			ALTER TABLE workflows
				ADD COLUMN node_count INTEGER NOT NULL DEFAULT 0,
				ADD COLUMN node_types TEXT[] NOT NULL DEFAULT '{}';

			CREATE INDEX idx_workflows_node_types ON workflows USING GIN (node_types);
		`,
	}
}
