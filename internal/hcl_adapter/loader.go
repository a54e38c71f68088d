package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/specialistvlad/buildcheck/internal/fsutil"
	"github.com/specialistvlad/buildcheck/internal/hclutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
// A Loader is not safe for concurrent use.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Files returns the source of every file parsed so far, keyed by filename.
// Diagnostic writers use it to print source snippets.
func (l *Loader) Files() map[string]*hcl.File {
	return l.parser.Files()
}

// parsedFile is one configuration file split into its top-level blocks.
type parsedFile struct {
	path    string
	content *hcl.BodyContent
}

// Load discovers every .hcl file under the given paths, locates the root
// project and translates the root blocks and all modules into the model.
// Root blocks are translated first because module expressions may refer to
// `extra` and `root`.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	// The parser caches files by name; start fresh so reloads see edits.
	l.parser = hclparse.NewParser()

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl configuration files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	var parsed []parsedFile
	for _, file := range hclFiles {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		content, diags := hclFile.Body.Content(rootSchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		parsed = append(parsed, parsedFile{path: file, content: content})
	}

	root, diags := l.findRoot(parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to locate root project: %w", diags)
	}

	model := &config.Model{
		RootDir: filepath.Dir(root.path),
		Files:   hclFiles,
		Boms:    make(map[string]*config.Bom),
	}
	logger.Debug("Root project located.", "file", root.path, "root_dir", model.RootDir)

	evalCtx, diags := l.translateRoot(ctx, root, model)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode root project in %s: %w", root.path, diags)
	}

	seenModules := make(map[string]*hcl.Block)
	for _, pf := range parsed {
		for _, block := range pf.content.Blocks {
			switch block.Type {
			case "module":
				if first, dup := seenModules[block.Labels[0]]; dup {
					return nil, fmt.Errorf("failed to decode HCL file %s: %w", pf.path, hcl.Diagnostics{&hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Duplicate module",
						Detail:   fmt.Sprintf("Module %q was already declared at %s.", block.Labels[0], first.DefRange),
						Subject:  block.DefRange.Ptr(),
					}})
				}
				seenModules[block.Labels[0]] = block

				mod, diags := l.translateModule(ctx, pf.path, block, evalCtx)
				if diags.HasErrors() {
					return nil, fmt.Errorf("failed to decode module %q in %s: %w", block.Labels[0], pf.path, diags)
				}
				model.Modules = append(model.Modules, mod)
			case "bom":
				bom, diags := l.translateBom(block, evalCtx)
				if diags.HasErrors() {
					return nil, fmt.Errorf("failed to decode bom %q in %s: %w", block.Labels[0], pf.path, diags)
				}
				model.Boms[bom.Coordinate.Value] = bom
			}
		}
	}
	sort.Slice(model.Modules, func(i, j int) bool { return model.Modules[i].Name < model.Modules[j].Name })

	logger.Debug("HCL loading complete.", "files", len(hclFiles), "modules", len(model.Modules), "boms", len(model.Boms))
	return model, nil
}

// findRoot returns the file that declares the `project` block. Root-only
// blocks must be unique across all files and live in that same file.
func (l *Loader) findRoot(files []parsedFile) (*parsedFile, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var all hcl.Blocks
	owner := make(map[*hcl.Block]int)
	for i, pf := range files {
		for _, b := range pf.content.Blocks {
			all = append(all, b)
			owner[b] = i
		}
	}

	project, pdiags := hclutil.FindUniqueBlock(all, "project")
	diags = append(diags, pdiags...)
	if project == nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing root project",
			Detail:   "Exactly one file must declare a \"project\" block; its directory is the root project directory.",
		})
		return nil, diags
	}
	root := &files[owner[project]]

	for _, name := range rootOnlyBlocks {
		block, bdiags := hclutil.FindUniqueBlock(all, name)
		diags = append(diags, bdiags...)
		if block != nil && owner[block] != owner[project] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Root block outside the root file",
				Detail:   fmt.Sprintf("The %q block must be declared in %s, next to the \"project\" block.", name, root.path),
				Subject:  block.DefRange.Ptr(),
			})
		}
	}
	for _, b := range all {
		if b.Type == "task" && owner[b] != owner[project] {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Task outside the root file",
				Detail:   fmt.Sprintf("Task %q must be declared in %s.", b.Labels[0], root.path),
				Subject:  b.DefRange.Ptr(),
			})
		}
	}
	return root, diags
}

// findAllHCLFiles walks all given paths and returns a flat, de-duplicated
// list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		p = filepath.Clean(p)
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to find configuration files in %s: %w", path, err)
			}
			for _, f := range files {
				add(f)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
