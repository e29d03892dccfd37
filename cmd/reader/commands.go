package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/readwise-tools/go-reader/pkg/reader"
)

// newClient builds a Reader client from the command flags and environment.
func newClient(cmd *cobra.Command) (*reader.Client, error) {
	cfg := reader.DefaultConfig("")
	cfg.UserAgent = "go-reader-cli/" + version
	if base, _ := cmd.Flags().GetString("api-base"); base != "" {
		cfg.BaseURL = base
	}
	return reader.New(cfg)
}

// listItem is the trimmed document view printed by the list command.
type listItem struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	Author          string  `json:"author"`
	Source          string  `json:"source"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	ReadingProgress float64 `json:"reading_progress"`
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func authCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-check",
		Short: "Verify that the configured token is valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			valid, err := client.AuthCheck(cmd.Context())
			if err != nil {
				return err
			}
			if !valid {
				return ErrInvalidToken
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token is valid.")
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var (
		location     string
		category     string
		tag          string
		updatedAfter string
		number       int
		pageSize     int
		rawSourceURL bool
		retry        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			filter := reader.ListingFilter{
				Location:         reader.Location(location),
				Category:         reader.Category(category),
				Tag:              tag,
				PageSize:         pageSize,
				WithRawSourceURL: rawSourceURL,
			}
			if updatedAfter != "" {
				ts, err := time.Parse(time.RFC3339, updatedAfter)
				if err != nil {
					return fmt.Errorf("invalid --updated-after %q: %w", updatedAfter, err)
				}
				filter.UpdatedAfter = ts
			}

			var opts []reader.ListOption
			if number > 0 {
				opts = append(opts, reader.WithLimit(number))
			}
			if retry {
				opts = append(opts, reader.WithThrottleRetry())
			}

			docs, err := client.List(cmd.Context(), filter, opts...)
			if err != nil {
				return err
			}

			items := make([]listItem, len(docs))
			for i, d := range docs {
				items[i] = listItem{
					ID:              d.ID,
					Title:           d.Title,
					Category:        d.Category,
					Author:          d.Author,
					Source:          d.Source,
					CreatedAt:       d.CreatedAt,
					UpdatedAt:       d.UpdatedAt,
					ReadingProgress: d.ReadingProgress,
				}
			}
			return printJSON(cmd, items)
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Filter by location (new, later, shortlist, archive, feed)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category (article, email, rss, ...)")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Filter by tag")
	cmd.Flags().StringVarP(&updatedAfter, "updated-after", "u", "", "Only documents updated after this RFC 3339 timestamp")
	cmd.Flags().IntVarP(&number, "number", "n", 0, "Limit the total number of documents returned")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Documents per page requested from the server (1-100)")
	cmd.Flags().BoolVar(&rawSourceURL, "raw-source-url", false, "Include the raw source URL")
	cmd.Flags().BoolVar(&retry, "retry", false, "Wait and retry when rate limited")

	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a single document by its ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			doc, err := client.GetDocumentByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No document with ID %q could be found.\n", args[0])
				return nil
			}
			return printJSON(cmd, doc)
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <url>",
		Short: "Find a document by its saved URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			doc, err := client.SearchDocumentByURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No document with URL %q could be found.\n", args[0])
				return nil
			}
			return printJSON(cmd, doc)
		},
	}
}

func saveCmd() *cobra.Command {
	var (
		docURL   string
		htmlFile string
		req      reader.SaveRequest
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a document to Reader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			req.URL = docURL
			if htmlFile != "" {
				html, err := os.ReadFile(htmlFile)
				if err != nil {
					return fmt.Errorf("read html file: %w", err)
				}
				req.HTML = string(html)
			}

			res := client.SaveDocument(cmd.Context(), req)
			if !res.OK {
				return res.Err
			}
			if res.AlreadyExists {
				fmt.Fprintf(cmd.OutOrStdout(), "This document has already been saved earlier with ID %q.\n", res.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved new document %q.\n", res.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&docURL, "url", "", "URL of the document to save")
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "File containing the document HTML")
	cmd.Flags().BoolVar(&req.ShouldCleanHTML, "clean-html", false, "Clean the provided HTML and parse its metadata")
	cmd.Flags().StringVar(&req.Title, "title", "", "Override the document title")
	cmd.Flags().StringVar(&req.Author, "author", "", "Override the document author")
	cmd.Flags().StringVar(&req.Summary, "summary", "", "Document summary")
	cmd.Flags().StringVar(&req.PublishedDate, "published-date", "", "Publication date (ISO 8601)")
	cmd.Flags().StringVar(&req.ImageURL, "image-url", "", "Cover image URL")
	cmd.Flags().StringVar(&req.Location, "location", "", "Initial location (new, later, archive, feed)")
	cmd.Flags().StringVar(&req.Category, "category", "", "Document category")
	cmd.Flags().StringVar(&req.SavedUsing, "saved-using", "", "Source label for the save")
	cmd.Flags().StringSliceVar(&req.Tags, "tags", nil, "Tags to attach")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Notes to attach")

	cmd.MarkFlagsOneRequired("url", "html-file")
	cmd.MarkFlagsMutuallyExclusive("url", "html-file")

	return cmd
}

func updateCmd() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Move a document to another location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			res := client.UpdateDocumentLocation(cmd.Context(), args[0], reader.Location(location))
			if !res.OK {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved document %q to %q.\n", args[0], location)
			return nil
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Target location (new, later, archive)")
	cmd.MarkFlagRequired("location")

	return cmd
}

func deleteCmd() *cobra.Command {
	var docURL string

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a document by ID or by saved URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && docURL == "" {
				return fmt.Errorf("requires at least an id argument or --url")
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var res reader.DeleteResult
			if len(args) > 0 {
				res = client.DeleteDocument(cmd.Context(), args[0])
			} else {
				res = client.DeleteDocumentByURL(cmd.Context(), docURL)
			}
			if !res.OK {
				return res.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Document deleted.")
			return nil
		},
	}

	cmd.Flags().StringVar(&docURL, "url", "", "Delete the document saved from this URL")

	return cmd
}
