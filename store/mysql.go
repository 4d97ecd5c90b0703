// Copyright 2017 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"github.com/taprootassets/mssmt"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS mssmt_branches (node_hash BINARY(32) PRIMARY KEY, data VARBINARY(4096) NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS mssmt_leaves (node_hash BINARY(32) PRIMARY KEY, data MEDIUMBLOB NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS mssmt_compact_leaves (node_hash BINARY(32) PRIMARY KEY, data MEDIUMBLOB NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS mssmt_meta (meta_key VARCHAR(32) PRIMARY KEY, value BINARY(32) NOT NULL)`,
}

// NewMySQL opens a MySQL-backed Database at dsn, creating its tables if
// they don't already exist.
func NewMySQL(dsn string, hasher mssmt.Hasher) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	for _, stmt := range mysqlSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return newSQLStore(db, placeholderQuestion, hasher), nil
}
