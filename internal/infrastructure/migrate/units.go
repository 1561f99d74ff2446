package migrate

// Units devuelve el catálogo completo de unidades en orden de aplicación.
// El esquema siempre precede a la siembra de reglas: 0005 crea policy_rules
// y 0006 la puebla; el secuenciador garantiza ese orden.
func Units() []Unit {
	return []Unit{
		{
			ID: "0001_create_companies",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS companies (
					id UUID PRIMARY KEY,
					name TEXT NOT NULL,
					created_by UUID,
					status TEXT NOT NULL DEFAULT 'active',
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
			},
		},
		{
			ID: "0002_create_branches",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS branches (
					id UUID PRIMARY KEY,
					company_id UUID NOT NULL REFERENCES companies(id),
					name TEXT NOT NULL,
					address TEXT,
					phone TEXT,
					status TEXT NOT NULL DEFAULT 'active',
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE INDEX IF NOT EXISTS idx_branches_company ON branches(company_id)`,
			},
		},
		{
			ID: "0003_create_users",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS users (
					id UUID PRIMARY KEY,
					company_id UUID REFERENCES companies(id),
					branch_id UUID REFERENCES branches(id),
					email TEXT NOT NULL,
					password_hash TEXT NOT NULL,
					name TEXT NOT NULL,
					role TEXT NOT NULL,
					status TEXT NOT NULL DEFAULT 'active',
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					CONSTRAINT users_email_key UNIQUE (email),
					CONSTRAINT users_role_check CHECK (role IN ('ceo', 'branch_manager', 'shift_leader', 'staff'))
				)`,
				`CREATE INDEX IF NOT EXISTS idx_users_company ON users(company_id)`,
				// un CEO por empresa, aplicado por la base y no por la aplicación
				`CREATE UNIQUE INDEX IF NOT EXISTS users_one_ceo_per_company ON users(company_id) WHERE role = 'ceo'`,
			},
		},
		{
			ID: "0004_create_invitations",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS invitations (
					id UUID PRIMARY KEY,
					invitation_code TEXT NOT NULL UNIQUE,
					role_type TEXT NOT NULL,
					company_id UUID NOT NULL REFERENCES companies(id),
					branch_id UUID REFERENCES branches(id),
					created_by UUID NOT NULL REFERENCES users(id),
					expires_at TIMESTAMPTZ NOT NULL,
					used_at TIMESTAMPTZ,
					used_by UUID,
					created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
					CONSTRAINT invitations_role_check CHECK (role_type IN ('branch_manager', 'shift_leader', 'staff'))
				)`,
				`CREATE INDEX IF NOT EXISTS idx_invitations_company ON invitations(company_id)`,
			},
		},
		{
			ID: "0005_create_policy_rules",
			Statements: []string{
				`CREATE TABLE IF NOT EXISTS policy_rules (
					resource TEXT NOT NULL,
					action TEXT NOT NULL,
					role TEXT NOT NULL,
					PRIMARY KEY (resource, action, role)
				)`,
			},
		},
		{
			ID: "0006_seed_policy_rules",
			Statements: []string{
				`INSERT INTO policy_rules (resource, action, role) VALUES
					('orders', 'read', 'staff'),
					('orders', 'create', 'staff'),
					('inventory', 'read', 'staff'),
					('shifts', 'read', 'staff'),
					('branches', 'read', 'staff')
				ON CONFLICT DO NOTHING`,
			},
		},
	}
}
