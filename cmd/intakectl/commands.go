package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/adapters/http/mapper"
	"github.com/Apurer/parcel-intake-api/internal/domains/parcels/application/types"
)

func ingestCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest an XML manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}
			return withServices(cmd.Context(), func(ctx context.Context, svc services) error {
				result, err := svc.parcels.Ingest(ctx, types.IngestManifestInput{
					Manifest: raw,
					Filename: filepath.Base(file),
				})
				if err != nil {
					return err
				}
				return printUploadResponse(os.Stdout, mapper.FromIngestionResult(result))
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "manifest file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func parcelsCmd() *cobra.Command {
	parcels := &cobra.Command{Use: "parcels", Short: "Inspect and advance parcels"}
	parcels.AddCommand(parcelsListCmd())
	parcels.AddCommand(parcelsApproveCmd())
	parcels.AddCommand(parcelsCompleteCmd())
	return parcels
}

func parcelsListCmd() *cobra.Command {
	var input types.ListParcelsInput
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parcels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc services) error {
				list, err := svc.parcels.List(ctx, input)
				if err != nil {
					return err
				}
				return printParcels(os.Stdout, mapper.FromProjectionList(list))
			})
		},
	}
	cmd.Flags().StringVar(&input.Department, "department", "", "department filter (mail, regular, heavy, all)")
	cmd.Flags().StringVar(&input.Status, "status", "", "status filter")
	cmd.Flags().StringVar(&input.Search, "search", "", "match parcel id or department")
	return cmd
}

func parcelsApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <parcel-id>",
		Short: "Approve insurance for a parcel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc services) error {
				p, err := svc.parcels.ApproveInsurance(ctx, types.ParcelIdentifier{ParcelID: args[0]})
				if err != nil {
					return err
				}
				return printParcels(os.Stdout, []mapper.Parcel{mapper.FromProjection(p)})
			})
		},
	}
}

func parcelsCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <parcel-id>",
		Short: "Mark a parcel as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc services) error {
				p, err := svc.parcels.CompleteProcessing(ctx, types.ParcelIdentifier{ParcelID: args[0]})
				if err != nil {
					return err
				}
				return printParcels(os.Stdout, []mapper.Parcel{mapper.FromProjection(p)})
			})
		},
	}
}

func rulesCmd() *cobra.Command {
	rules := &cobra.Command{Use: "rules", Short: "Show or replace the business rules"}
	rules.AddCommand(rulesShowCmd())
	rules.AddCommand(rulesSetCmd())
	return rules
}

func rulesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active business rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc services) error {
				current, err := svc.parcels.Rules(ctx)
				if err != nil {
					return err
				}
				return printRules(os.Stdout, mapper.FromRuleSet(current))
			})
		},
	}
}

func rulesSetCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the business rules from a YAML or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read rules: %w", err)
			}
			next, err := decodeRules(raw)
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), func(ctx context.Context, svc services) error {
				saved, err := svc.parcels.ReplaceRules(ctx, next)
				if err != nil {
					return err
				}
				return printRules(os.Stdout, mapper.FromRuleSet(saved))
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "rules file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete all parcels and restore default rules and departments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd.Context(), func(ctx context.Context, svc services) error {
				if err := svc.parcels.Reset(ctx); err != nil {
					return err
				}
				if err := svc.departments.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, "All data has been reset to defaults")
				return nil
			})
		},
	}
}
