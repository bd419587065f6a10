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
	"time"

	"cantierelog/internal/domain"
)

func sampleProject(id string) domain.Project {
	return domain.Project{
		ID:           id,
		OwnerID:      "u-owner",
		LastModified: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		DisplayOrder: 1,
		Contract: domain.Contract{
			EntityName: "Comune di Prato",
			Title:      "Manutenzione ponte sul Bisenzio",
			Terms: domain.ContractTerms{
				ContractNumber: "2025-0042",
				Amount:         185000.50,
				DurationDays:   240,
			},
			Phases: []domain.Phase{
				{Name: "fondazioni", StartDate: "2026-01-10"},
			},
		},
	}
}

func sampleVerbale(id, projectID string) domain.Verbale {
	return domain.Verbale{
		ID:          id,
		ProjectID:   projectID,
		CreatedAt:   time.Date(2026, 3, 12, 8, 30, 0, 0, time.UTC),
		VisitNumber: 1,
		VisitedAt:   time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC),
		Weather:     "sereno",
		Narrative:   "Avanzamento regolare delle opere di fondazione.",
		WorkItems: []domain.WorkItem{
			{Description: "scavo di sbancamento", Quantity: 120, Unit: "m3"},
		},
	}
}

func sampleUser(email string) domain.User {
	return domain.User{
		Email:       email,
		Password:    "segreto",
		DisplayName: "Anna Bianchi",
	}
}
