// Package orggraph mirrors the employee reporting structure into Neo4j.
// The graph is a best-effort collaborator: it is replaced on each load and
// queried for manager chains, but callers fall back to the in-memory
// directory when it is unavailable.
package orggraph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/CodeWithNed/company-vector-db/engine/domain"
)

// Store provides reporting-graph operations.
type Store struct {
	driver neo4j.DriverWithContext
}

// New creates a Store on an existing driver.
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{driver: driver}
}

// Replace drops all employee nodes and rebuilds the graph from the batch.
func (g *Store) Replace(ctx context.Context, employees []domain.Employee) error {
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	if _, err := sess.Run(ctx, `MATCH (e:Employee) DETACH DELETE e`, nil); err != nil {
		return fmt.Errorf("orggraph: clear graph: %w", err)
	}

	for _, e := range employees {
		_, err := sess.Run(ctx,
			`MERGE (n:Employee {id: $id}) SET n += $props`,
			map[string]any{"id": e.ID, "props": employeeToMap(e)},
		)
		if err != nil {
			return fmt.Errorf("orggraph: save employee %s: %w", e.ID, err)
		}
	}

	// Edges second, so both endpoints exist. A manager outside the batch
	// still gets a placeholder node carrying its name.
	for _, e := range employees {
		if e.Manager == nil {
			continue
		}
		_, err := sess.Run(ctx,
			`MERGE (m:Employee {id: $manager_id})
			 ON CREATE SET m.name = $manager_name
			 WITH m
			 MATCH (e:Employee {id: $id})
			 MERGE (e)-[:REPORTS_TO]->(m)`,
			map[string]any{
				"id":           e.ID,
				"manager_id":   e.Manager.ID,
				"manager_name": e.Manager.DisplayFullName,
			},
		)
		if err != nil {
			return fmt.Errorf("orggraph: link %s -> %s: %w", e.ID, e.Manager.ID, err)
		}
	}
	return nil
}

// ManagerChain returns up to levels managers above the employee, nearest
// first.
func (g *Store) ManagerChain(ctx context.Context, id string, levels int) ([]domain.ManagerRef, error) {
	if levels <= 0 {
		levels = 1
	}
	sess := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := fmt.Sprintf(
		`MATCH path = (e:Employee {id: $id})-[:REPORTS_TO*1..%d]->(m:Employee)
		 RETURN m.id AS id, m.name AS name
		 ORDER BY length(path)`, levels)
	result, err := sess.Run(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("orggraph: manager chain for %s: %w", id, err)
	}

	var chain []domain.ManagerRef
	for result.Next(ctx) {
		rec := result.Record()
		ref := domain.ManagerRef{}
		if v, ok := rec.Get("id"); ok {
			ref.ID, _ = v.(string)
		}
		if v, ok := rec.Get("name"); ok {
			ref.DisplayFullName, _ = v.(string)
		}
		chain = append(chain, ref)
	}
	return chain, nil
}

func employeeToMap(e domain.Employee) map[string]any {
	return map[string]any{
		"name":              e.DisplayFullName,
		"employment_type":   string(e.EmploymentType),
		"employment_status": string(e.EmploymentStatus),
		"company":           e.Company.Name,
	}
}
