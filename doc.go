// Package dbregistry maps a declarative set of named database connections
// onto lazily opened, cached engine handles with a uniform execution API.
//
// A YAML file describes the connections:
//
//	connections:
//	  - name: reporting
//	    driver: sqlite://
//	    connection: reporting.db
//	  - name: warehouse
//	    driver: postgres://
//	    connection: user:pass@warehouse:5432/dw
//
// Load it into a Registry and run statements by connection name:
//
//	reg, err := dbregistry.Open(".connections.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = reg.Execute(ctx, "reporting",
//		"INSERT INTO runs (label) VALUES (:label)",
//		map[string]any{"label": "nightly"})
//
//	rs, err := reg.Recordset(ctx, "warehouse",
//		"SELECT id, total FROM orders WHERE region = :region",
//		map[string]any{"region": "emea"})
//
// Engines are opened on first use and reused for the registry's lifetime;
// every Execute and Recordset call runs inside its own transaction that
// commits on success and rolls back on failure.
package dbregistry
