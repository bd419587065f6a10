/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cantierelog/internal/domain"
)

func TestProjectSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := sampleProject("p-1")
	require.NoError(t, s.Projects.Save(ctx, p))

	got, err := s.Projects.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, p, got)
	require.Equal(t, "Comune di Prato", got.Contract.EntityName)
	require.Len(t, got.Contract.Phases, 1)
}

func TestProjectSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := sampleProject("p-1")
	require.NoError(t, s.Projects.Save(ctx, p))

	p.Contract.Title = "Variante in corso d'opera"
	p.DisplayOrder = 7
	require.NoError(t, s.Projects.Save(ctx, p))

	got, err := s.Projects.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.Equal(t, "Variante in corso d'opera", got.Contract.Title)
	require.Equal(t, 7, got.DisplayOrder)

	all, err := s.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestProjectGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Projects.GetByID(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVerbaleListByProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Projects.Save(ctx, sampleProject("p-1")))
	require.NoError(t, s.Projects.Save(ctx, sampleProject("p-2")))
	require.NoError(t, s.Verbali.Save(ctx, sampleVerbale("v-1", "p-1")))
	require.NoError(t, s.Verbali.Save(ctx, sampleVerbale("v-2", "p-1")))
	require.NoError(t, s.Verbali.Save(ctx, sampleVerbale("v-3", "p-2")))

	got, err := s.Verbali.ListByProject(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, v := range got {
		require.Equal(t, "p-1", v.ProjectID)
	}

	all, err := s.Verbali.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestVerbaleSaveFollowsProjectMove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	v := sampleVerbale("v-1", "p-1")
	require.NoError(t, s.Verbali.Save(ctx, v))

	v.ProjectID = "p-2"
	require.NoError(t, s.Verbali.Save(ctx, v))

	old, err := s.Verbali.ListByProject(ctx, "p-1")
	require.NoError(t, err)
	require.Empty(t, old)

	moved, err := s.Verbali.ListByProject(ctx, "p-2")
	require.NoError(t, err)
	require.Len(t, moved, 1)
}

func TestVerbaleDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Verbali.Save(ctx, sampleVerbale("v-1", "p-1")))
	require.NoError(t, s.Verbali.Delete(ctx, "v-1"))

	_, err := s.Verbali.GetByID(ctx, "v-1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Verbali.Delete(ctx, "v-1")) // deleting again is a no-op
}

func TestDeleteProjectCascade(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Projects.Save(ctx, sampleProject("p-1")))
	require.NoError(t, s.Projects.Save(ctx, sampleProject("p-2")))
	require.NoError(t, s.Verbali.Save(ctx, sampleVerbale("v-1", "p-1")))
	require.NoError(t, s.Verbali.Save(ctx, sampleVerbale("v-2", "p-1")))
	require.NoError(t, s.Verbali.Save(ctx, sampleVerbale("v-3", "p-2")))
	require.NoError(t, s.Permissions.Grant(ctx, domain.Permission{
		ID: "g-1", ProjectID: "p-1", UserEmail: "anna@example.it", Role: domain.RoleViewer,
	}))

	require.NoError(t, s.Projects.Delete(ctx, "p-1"))

	_, err := s.Projects.GetByID(ctx, "p-1")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Verbali.GetByID(ctx, "v-1")
	require.ErrorIs(t, err, ErrNotFound)

	left, err := s.Verbali.ListByProject(ctx, "p-1")
	require.NoError(t, err)
	require.Empty(t, left)

	// The sibling project and its verbale survive.
	_, err = s.Projects.GetByID(ctx, "p-2")
	require.NoError(t, err)
	other, err := s.Verbali.ListByProject(ctx, "p-2")
	require.NoError(t, err)
	require.Len(t, other, 1)

	// Grants are not cascaded.
	grants, err := s.Permissions.ListByProject(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, grants, 1)
}

func TestDeleteMissingProjectIsNoOp(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Projects.Delete(context.Background(), "ghost"))
}

func TestPermissionGrant(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	g := domain.Permission{ProjectID: "p-1", UserEmail: "anna@example.it", Role: domain.RoleEditor}
	require.NoError(t, s.Permissions.Grant(ctx, g))

	// Granting twice for the same user and project is allowed and yields two
	// records; the forms do not dedupe.
	require.NoError(t, s.Permissions.Grant(ctx, g))

	grants, err := s.Permissions.ListByProject(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, grants, 2)
	require.NotEqual(t, grants[0].ID, grants[1].ID)
}

func TestPermissionGrantRejectsUnknownRole(t *testing.T) {
	s := newTestStore(t)
	err := s.Permissions.Grant(context.Background(), domain.Permission{
		ProjectID: "p-1", UserEmail: "anna@example.it", Role: domain.PermissionRole("owner"),
	})
	require.Error(t, err)
}
