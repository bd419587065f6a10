/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package store is the local persistent data store of CantiereLog: a set of
// keyed collections (users, projects, verbali, permissions) backed by one
// embedded SQLite database under the application data directory.
//
// Each collection is a table with an `id` primary key and a `payload` column
// holding the full JSON record; fields that need a secondary access path
// (user email, verbale project id) are mirrored into indexed columns. All
// multi-collection invariants (cascade delete, snapshot export/restore,
// legacy merge) run inside a single transaction.
//
// Known accepted limitations, kept on purpose:
//   - verbali.project_id is not a SQL foreign key; a verbale can reference a
//     missing project and the store will not object.
//   - permissions are not cascaded when their project is deleted.
//   - granting the same (project, email) pair twice creates two records.
//
// The store is handed around as an explicit *Store; there is no package-level
// instance.
package store
