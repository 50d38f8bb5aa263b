package main

import (
	"fmt"
	"os"
	"path/filepath"

	"binaahub/internal/docservice"
	"binaahub/internal/tracker"
	"binaahub/pkg/types"

	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// docsCommand drives the document service through the upload tracker from
// the terminal. Useful for poking at a deployed backend without a client.
var docsCommand = &cli.Command{
	Name:  "docs",
	Usage: "Inspect and exercise the profile document endpoints",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "role",
			Aliases:  []string{"r"},
			Usage:    "Marketplace role (individual, contractor, supplier, engineering_office, freelance_engineer, organization)",
			Required: true,
		},
	},
	Subcommands: []*cli.Command{
		docsListCommand,
		docsUploadCommand,
		docsSubmitCommand,
		docsStatusCommand,
	},
}

var docsListCommand = &cli.Command{
	Name:  "list",
	Usage: "Fetch and print the role's document requirements",
	Action: func(c *cli.Context) error {
		t, role, err := newDocsTracker(c)
		if err != nil {
			return err
		}

		t.FetchDocuments(c.Context, role, false)
		if msg := t.RoleError(role); msg != "" {
			return fmt.Errorf("fetch failed: %s", msg)
		}

		pp.Println(t.Documents(role))
		return nil
	},
}

var docsUploadCommand = &cli.Command{
	Name:      "upload",
	Usage:     "Upload a local file against a requirement",
	ArgsUsage: "<requirement-id> <path>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Display name for the uploaded file",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return fmt.Errorf("expected <requirement-id> <path>")
		}
		docID, path := c.Args().Get(0), c.Args().Get(1)

		t, role, err := newDocsTracker(c)
		if err != nil {
			return err
		}

		t.FetchDocuments(c.Context, role, false)
		if msg := t.RoleError(role); msg != "" {
			return fmt.Errorf("fetch failed: %s", msg)
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		var meta *types.FileMetadata
		if name := c.String("name"); name != "" {
			meta = &types.FileMetadata{CustomName: &name}
		}

		fileID, err := t.UploadFile(c.Context, role, docID, types.FilePayload{
			Name:   filepath.Base(path),
			Size:   info.Size(),
			Reader: f,
		}, meta)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		status, _ := t.UploadStatus(fileID)
		pp.Println(status)
		return nil
	},
}

var docsSubmitCommand = &cli.Command{
	Name:  "submit",
	Usage: "Submit the role's documents for review",
	Action: func(c *cli.Context) error {
		t, role, err := newDocsTracker(c)
		if err != nil {
			return err
		}

		t.FetchDocuments(c.Context, role, false)
		if msg := t.RoleError(role); msg != "" {
			return fmt.Errorf("fetch failed: %s", msg)
		}

		t.SubmitDocuments(c.Context, role)
		if msg := t.RoleError(role); msg != "" {
			return fmt.Errorf("submit failed: %s", msg)
		}

		fmt.Println("submitted")
		return nil
	},
}

var docsStatusCommand = &cli.Command{
	Name:  "status",
	Usage: "Print mandatory document completion for the role",
	Action: func(c *cli.Context) error {
		t, role, err := newDocsTracker(c)
		if err != nil {
			return err
		}

		t.FetchDocuments(c.Context, role, false)
		if msg := t.RoleError(role); msg != "" {
			return fmt.Errorf("fetch failed: %s", msg)
		}

		completed, total := t.MandatoryCompletionStatus(role)
		fmt.Printf("%d/%d mandatory documents uploaded\n", completed, total)
		return nil
	},
}

func newDocsTracker(c *cli.Context) (*tracker.Tracker, types.Role, error) {
	role := types.Role(c.String("role"))
	if !role.Valid() {
		return nil, "", fmt.Errorf("unknown role %q", role)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	client := docservice.NewClient(cfg.DocumentServiceURL, cfg.DocumentServiceToken)

	return tracker.New(client, logger), role, nil
}
