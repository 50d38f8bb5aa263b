package seed

import (
	"binaahub/internal/store"
	"binaahub/internal/utils"
	"binaahub/pkg/types"
	"context"
	"fmt"
)

// SeedRequirements syncs the database with the per-role document
// requirement catalog below. This file is the source of truth:
// - Inserts new requirements that don't exist
// - Updates existing requirements that have changed
// - Deletes requirements from DB that aren't in this list
//
// To generate new IDs: `go run ./cmd/binaahub nanoid`
// To add a requirement: Add it to the list with a new ID and run `just seed`
// To remove a requirement: Remove it from the list and run `just seed` (auto-deleted from DB)
// To update a requirement: Edit the fields and run `just seed`
func SeedRequirements(ctx context.Context, repo *store.RequirementRepository) error {
	// Fixed IDs keep reseeding idempotent across environments
	requirements := []types.RequirementDefinition{
		{
			ID:                "kY9pF34Qy6nB3Wwd25rq4f5zr3QA7YeE",
			Role:              types.RoleIndividual,
			Label:             "National ID",
			Description:       utils.StringPtr("Government-issued national identity card, both sides"),
			Code:              "national_id",
			Category:          "mandatory",
			AcceptedFileTypes: []string{"pdf", "jpg", "jpeg", "png"},
			MaxFileSizeMB:     5,
			DisplayOrder:      1,
			IsActive:          true,
		},
		{
			ID:                "EBY3ABp3e2zS8iq9y7AjzQHb6BAEcn6z",
			Role:              types.RoleContractor,
			Label:             "Commercial Registration",
			Description:       utils.StringPtr("Valid commercial registration certificate"),
			Code:              "commercial_registration",
			Category:          "mandatory",
			AcceptedFileTypes: []string{"pdf"},
			MaxFileSizeMB:     10,
			DisplayOrder:      1,
			IsActive:          true,
		},
		{
			ID:                "J4A3DdvHyrNktBXtnjfObINf5AjxvUlK",
			Role:              types.RoleContractor,
			Label:             "Classification Certificate",
			Description:       utils.StringPtr("Contractor classification certificate issued by the municipality"),
			Code:              "classification_certificate",
			Category:          "mandatory",
			AcceptedFileTypes: []string{"pdf"},
			MaxFileSizeMB:     10,
			DisplayOrder:      2,
			IsActive:          true,
		},
		{
			ID:                 "siC47wqaMl9Xvq2ZG4MzAOUQklImCvBP",
			Role:               types.RoleContractor,
			Label:              "Completed Project References",
			Description:        utils.StringPtr("Handover certificates or completion letters for past projects"),
			Code:               "project_references",
			Category:           "optional",
			AcceptedFileTypes:  []string{"pdf", "jpg", "png"},
			MaxFileSizeMB:      10,
			AllowMultipleFiles: true,
			MaxFilesCount:      5,
			DisplayOrder:       3,
			IsActive:           true,
		},
		{
			ID:                "t4R5YhuIG43KIjFAHQsiJoUGm1YtmaD7",
			Role:              types.RoleSupplier,
			Label:             "Commercial Registration",
			Description:       utils.StringPtr("Valid commercial registration certificate"),
			Code:              "commercial_registration",
			Category:          "mandatory",
			AcceptedFileTypes: []string{"pdf"},
			MaxFileSizeMB:     10,
			DisplayOrder:      1,
			IsActive:          true,
		},
		{
			ID:                 "v3dNi8LfppWTv5aspzhU8QrTzhJqmHUo",
			Role:               types.RoleSupplier,
			Label:              "Product Catalog",
			Description:        utils.StringPtr("Catalog of supplied construction materials and equipment"),
			Code:               "product_catalog",
			Category:           "optional",
			AcceptedFileTypes:  []string{"pdf"},
			MaxFileSizeMB:      25,
			AllowMultipleFiles: true,
			MaxFilesCount:      3,
			DisplayOrder:       2,
			IsActive:           true,
		},
		{
			ID:                "Ze95b9eGe0vRBbgi09qynDAkY8ISwYDF",
			Role:              types.RoleEngineeringOffice,
			Label:             "Engineering License",
			Description:       utils.StringPtr("Office license issued by the engineers syndicate"),
			Code:              "engineering_license",
			Category:          "mandatory",
			AcceptedFileTypes: []string{"pdf", "jpg", "png"},
			MaxFileSizeMB:     10,
			DisplayOrder:      1,
			IsActive:          true,
		},
		{
			ID:                 "HL3tVTNYTHPzpppp6uEp3c4dsa7lC360",
			Role:               types.RoleEngineeringOffice,
			Label:              "Staff Engineer Credentials",
			Description:        utils.StringPtr("Syndicate membership cards for practicing engineers on staff"),
			Code:               "staff_credentials",
			Category:           "optional",
			AcceptedFileTypes:  []string{"pdf", "jpg", "png"},
			MaxFileSizeMB:      5,
			AllowMultipleFiles: true,
			MaxFilesCount:      10,
			DisplayOrder:       2,
			IsActive:           true,
		},
		{
			ID:                "A9y6YnD14TdDo9EgZmCnu77Svtuuj596",
			Role:              types.RoleFreelanceEngineer,
			Label:             "Syndicate Membership Card",
			Description:       utils.StringPtr("Valid engineers syndicate membership card"),
			Code:              "syndicate_membership",
			Category:          "mandatory",
			AcceptedFileTypes: []string{"pdf", "jpg", "png"},
			MaxFileSizeMB:     5,
			DisplayOrder:      1,
			IsActive:          true,
		},
		{
			ID:                "LlLguRIax1dYYxn9IyW1MxjFT5ISgxnW",
			Role:              types.RoleFreelanceEngineer,
			Label:             "National ID",
			Description:       utils.StringPtr("Government-issued national identity card, both sides"),
			Code:              "national_id",
			Category:          "mandatory",
			AcceptedFileTypes: []string{"pdf", "jpg", "jpeg", "png"},
			MaxFileSizeMB:     5,
			DisplayOrder:      2,
			IsActive:          true,
		},
		{
			ID:                 "amNeyyNwlEeDPOMScPfQpLPecxvmK11O",
			Role:               types.RoleFreelanceEngineer,
			Label:              "Portfolio",
			Description:        utils.StringPtr("Sample drawings, studies, or supervision reports"),
			Code:               "portfolio",
			Category:           "optional",
			AcceptedFileTypes:  []string{"pdf"},
			MaxFileSizeMB:      25,
			AllowMultipleFiles: true,
			MaxFilesCount:      5,
			DisplayOrder:       3,
			IsActive:           true,
		},
		{
			ID:                "hugcICZmsPXKmZn5e6euclduDVDR0uWF",
			Role:              types.RoleOrganization,
			Label:             "Establishment Certificate",
			Description:       utils.StringPtr("Organization establishment or incorporation certificate"),
			Code:              "establishment_certificate",
			Category:          "mandatory",
			AcceptedFileTypes: []string{"pdf"},
			MaxFileSizeMB:     10,
			DisplayOrder:      1,
			IsActive:          true,
		},
		{
			ID:                "mPF5RG7WoOJMcuUbrOEl5PYKptpLY5Ka",
			Role:              types.RoleOrganization,
			Label:             "Tax Registration",
			Description:       utils.StringPtr("Tax registration certificate"),
			Code:              "tax_registration",
			Category:          "mandatory",
			AcceptedFileTypes: []string{"pdf"},
			MaxFileSizeMB:     10,
			DisplayOrder:      2,
			IsActive:          true,
		},
	}

	fmt.Println("Starting requirement sync...")
	fmt.Printf("  Seed file contains %d requirements\n", len(requirements))

	seedIDs := make(map[string]bool)
	for _, req := range requirements {
		seedIDs[req.ID] = true
	}

	existing, err := repo.AllRequirementsUnfiltered(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing requirements: %w", err)
	}
	fmt.Printf("  Database contains %d requirements\n", len(existing))

	deletedCount := 0
	for _, existingReq := range existing {
		if !seedIDs[existingReq.ID] {
			fmt.Printf("  Deleting requirement: %s (id: %s)\n", existingReq.Label, existingReq.ID)
			if err := repo.DeleteRequirement(ctx, existingReq.ID); err != nil {
				return fmt.Errorf("failed to delete requirement %s: %w", existingReq.ID, err)
			}
			deletedCount++
		}
	}

	upsertedCount := 0
	for _, req := range requirements {
		fmt.Printf("  Upserting requirement: %s (%s/%s)\n", req.Label, req.Role, req.Code)
		if err := repo.UpsertRequirement(ctx, &req); err != nil {
			return fmt.Errorf("failed to upsert requirement %s: %w", req.Code, err)
		}
		upsertedCount++
	}

	fmt.Printf("\nSync complete: %d upserted, %d deleted\n", upsertedCount, deletedCount)
	return nil
}
