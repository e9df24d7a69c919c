package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"raspagem/internal/model"
)

// PageRepository persiste páginas rastreadas. Cada empresa tem sua
// própria tabela (tbl_paginas_<empresa>), vinda do registro de empresas.
type PageRepository struct {
	DB     *sql.DB
	Tabela string
}

// ExistingLinks devolve o conjunto de links já armazenados, usado pelo
// rastreamento incremental.
func (r *PageRepository) ExistingLinks() (map[string]bool, error) {
	rows, err := r.DB.Query(fmt.Sprintf("SELECT link FROM %s", r.Tabela))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make(map[string]bool)
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, err
		}
		links[link] = true
	}
	return links, rows.Err()
}

// Save insere uma página nova ou atualiza a existente pelo link.
func (r *PageRepository) Save(p model.Pagina) error {
	var exists bool
	err := r.DB.QueryRow(
		fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE link = $1)", r.Tabela), p.Link,
	).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		_, err = r.DB.Exec(fmt.Sprintf(`
			UPDATE %s
			SET content = $1, images = $2, tags = $3, local_path = $4, dt_download = CURRENT_TIMESTAMP
			WHERE link = $5
		`, r.Tabela), p.Content, nullArray(p.Images), nullArray(p.Tags), p.LocalPath, p.Link)
	} else {
		_, err = r.DB.Exec(fmt.Sprintf(`
			INSERT INTO %s (id, content, link, images, tags, local_path)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, r.Tabela), p.ID, p.Content, p.Link, nullArray(p.Images), nullArray(p.Tags), p.LocalPath)
	}

	return err
}

// nullArray converte slice vazio em NULL, como as tabelas esperam.
func nullArray(values []string) interface{} {
	if len(values) == 0 {
		return nil
	}
	return pq.Array(values)
}
