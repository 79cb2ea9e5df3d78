package competencysync

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"competency-matrix/internal/domain/competency"

	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindCategory Kind = "category"
	KindRole     Kind = "role"
)

const (
	DefaultCategoriesDir    = "categories"
	DefaultRolesDir         = "roles"
	DefaultProgressionsFile = "progressions.yaml"
	DefaultLegacyFile       = "competencies.yaml"

	// ManifestName lists the documents of a kind directory, one per line.
	// Listing is explicit so bundled (embed.FS) sources behave like disk.
	ManifestName = "index.txt"
)

// Loader reads configuration documents from an fs.FS, which is either the
// embedded seed bundle or os.DirFS of a configured directory.
type Loader struct {
	fsys   fs.FS
	logger *log.Logger

	CategoriesDir    string
	RolesDir         string
	ProgressionsFile string
	LegacyFile       string
}

func NewLoader(fsys fs.FS, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		fsys:             fsys,
		logger:           logger,
		CategoriesDir:    DefaultCategoriesDir,
		RolesDir:         DefaultRolesDir,
		ProgressionsFile: DefaultProgressionsFile,
		LegacyFile:       DefaultLegacyFile,
	}
}

// Load produces the unified dataset for one run. Category and role names are
// checked for cross-document duplicates before anything is returned.
func (l *Loader) Load() (Dataset, error) {
	if l == nil || l.fsys == nil {
		return Dataset{}, fmt.Errorf("%w: no document source configured", ErrConfig)
	}

	categoryDocs, err := l.Discover(KindCategory)
	if err != nil {
		return Dataset{}, err
	}
	roleDocs, err := l.Discover(KindRole)
	if err != nil {
		return Dataset{}, err
	}
	l.logger.Printf("[Loader] discovered documents categories=%d roles=%d", len(categoryDocs), len(roleDocs))

	if len(categoryDocs) == 0 && len(roleDocs) == 0 && l.exists(l.LegacyFile) {
		return l.loadLegacy()
	}

	categories, categorySources, err := l.merge(KindCategory, categoryDocs)
	if err != nil {
		return Dataset{}, err
	}
	if err := l.checkDuplicates(KindCategory, categoryNames(categories.Categories), categorySources); err != nil {
		return Dataset{}, err
	}

	roles, roleSources, err := l.merge(KindRole, roleDocs)
	if err != nil {
		return Dataset{}, err
	}
	if err := l.checkDuplicates(KindRole, roleNames(roles.Roles), roleSources); err != nil {
		return Dataset{}, err
	}

	progressions, err := l.LoadProgressions()
	if err != nil {
		return Dataset{}, err
	}

	ds := Dataset{
		Categories:   categories.Categories,
		Roles:        roles.Roles,
		Progressions: progressions,
	}
	l.logger.Printf("[Loader] loaded categories=%d roles=%d progressions=%d",
		len(ds.Categories), len(ds.Roles), len(ds.Progressions))
	return ds, nil
}

// Discover returns the document paths listed in the kind's manifest that
// exist in the source. A missing manifest yields no documents.
func (l *Loader) Discover(kind Kind) ([]string, error) {
	dir := l.dir(kind)
	manifest := path.Join(dir, ManifestName)

	b, err := fs.ReadFile(l.fsys, manifest)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Printf("[Loader] manifest not found path=%s", manifest)
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest %s: %w", manifest, err)
	}

	out := make([]string, 0)
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p := path.Join(dir, line)
		if !l.exists(p) {
			l.logger.Printf("[Loader] document listed in manifest but not found path=%s", p)
			continue
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", manifest, err)
	}
	return out, nil
}

// LoadAndMerge parses every discovered document of kind in manifest order.
// The returned sources slice is aligned with the merged entity list and
// holds the document name each entity came from.
func (l *Loader) LoadAndMerge(kind Kind) (Dataset, []string, error) {
	docs, err := l.Discover(kind)
	if err != nil {
		return Dataset{}, nil, err
	}
	return l.merge(kind, docs)
}

// LoadProgressions reads the single progressions document. Its absence is
// not an error: progressions are optional.
func (l *Loader) LoadProgressions() ([]ProgressionDoc, error) {
	p := l.ProgressionsFile
	if !l.exists(p) {
		l.logger.Printf("[Loader] %s not found, no progressions will be loaded", p)
		return []ProgressionDoc{}, nil
	}

	l.logger.Printf("[Loader] loading progressions path=%s", p)
	frag, err := l.parseFile(p)
	if err != nil {
		return nil, err
	}
	if frag.Progressions == nil {
		err := fmt.Errorf("%w in %s: expected a list of progressions", ErrSchema, path.Base(p))
		l.logger.Printf("[Loader] %v", err)
		return nil, err
	}
	return frag.Progressions, nil
}

func (l *Loader) loadLegacy() (Dataset, error) {
	name := path.Base(l.LegacyFile)
	l.logger.Printf("[Loader] no split documents found, loading single file path=%s", l.LegacyFile)

	ds, err := l.parseFile(l.LegacyFile)
	if err != nil {
		return Dataset{}, err
	}
	if err := l.checkDuplicates(KindCategory, categoryNames(ds.Categories), repeat(name, len(ds.Categories))); err != nil {
		return Dataset{}, err
	}
	if err := l.checkDuplicates(KindRole, roleNames(ds.Roles), repeat(name, len(ds.Roles))); err != nil {
		return Dataset{}, err
	}
	l.logger.Printf("[Loader] loaded categories=%d roles=%d progressions=%d",
		len(ds.Categories), len(ds.Roles), len(ds.Progressions))
	return ds, nil
}

func (l *Loader) merge(kind Kind, docs []string) (Dataset, []string, error) {
	out := Dataset{Categories: []CategoryDoc{}, Roles: []RoleDoc{}, Progressions: []ProgressionDoc{}}
	sources := make([]string, 0, len(docs))

	for _, p := range docs {
		name := path.Base(p)
		l.logger.Printf("[Loader] loading %s document path=%s", kind, p)

		frag, err := l.parseFile(p)
		if err != nil {
			return Dataset{}, nil, err
		}

		ignored := 0
		switch kind {
		case KindCategory:
			out.Categories = append(out.Categories, frag.Categories...)
			sources = append(sources, repeat(name, len(frag.Categories))...)
			ignored = len(frag.Roles) + len(frag.Progressions)
		case KindRole:
			out.Roles = append(out.Roles, frag.Roles...)
			sources = append(sources, repeat(name, len(frag.Roles))...)
			ignored = len(frag.Categories) + len(frag.Progressions)
		}
		if ignored > 0 {
			l.logger.Printf("[Loader] ignoring %d entries of other kinds in %s document path=%s", ignored, kind, p)
		}
	}
	return out, sources, nil
}

func (l *Loader) parseFile(p string) (Dataset, error) {
	b, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		err = fmt.Errorf("%w: read %s: %w", ErrParse, path.Base(p), err)
		l.logger.Printf("[Loader] %v", err)
		return Dataset{}, err
	}
	ds, err := ParseDocument(path.Base(p), b)
	if err != nil {
		l.logger.Printf("[Loader] failed to load document path=%s err=%v", p, err)
		return Dataset{}, err
	}
	return ds, nil
}

func (l *Loader) checkDuplicates(kind Kind, names, sources []string) error {
	if err := DetectDuplicates(kind, names, sources); err != nil {
		l.logger.Printf("[Loader] %v", err)
		return err
	}
	return nil
}

func (l *Loader) dir(kind Kind) string {
	if kind == KindRole {
		return l.RolesDir
	}
	return l.CategoriesDir
}

func (l *Loader) exists(p string) bool {
	if p == "" {
		return false
	}
	_, err := fs.Stat(l.fsys, p)
	return err == nil
}

// ParseDocument decodes one document and sniffs its shape: a mapping with
// "skills" is a category, one with categories/roles/progressions is a full
// dataset, one with "requirements" or "name" is a role, and a sequence is a
// progression list. Anything else is ErrSchema.
func ParseDocument(name string, data []byte) (Dataset, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Dataset{}, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	switch node.Kind {
	case yaml.MappingNode:
		keys := mappingKeys(node)
		switch {
		case keys["skills"]:
			var c CategoryDoc
			if err := node.Decode(&c); err != nil {
				return Dataset{}, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
			}
			c.Skills = attachCategory(c.Skills, c.Name)
			return Dataset{Categories: []CategoryDoc{c}, Roles: []RoleDoc{}, Progressions: []ProgressionDoc{}}, nil

		case keys["categories"] || keys["roles"] || keys["progressions"]:
			var ds Dataset
			if err := node.Decode(&ds); err != nil {
				return Dataset{}, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
			}
			for i := range ds.Categories {
				ds.Categories[i].Skills = attachCategory(ds.Categories[i].Skills, ds.Categories[i].Name)
			}
			return ds, nil

		case keys["requirements"] || keys["name"]:
			var r RoleDoc
			if err := node.Decode(&r); err != nil {
				return Dataset{}, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
			}
			return Dataset{Categories: []CategoryDoc{}, Roles: []RoleDoc{r}, Progressions: []ProgressionDoc{}}, nil
		}

	case yaml.SequenceNode:
		progressions := make([]ProgressionDoc, 0, len(node.Content))
		if err := node.Decode(&progressions); err != nil {
			return Dataset{}, fmt.Errorf("%w: %s: %w", ErrParse, name, err)
		}
		return Dataset{Categories: []CategoryDoc{}, Roles: []RoleDoc{}, Progressions: progressions}, nil
	}

	return Dataset{}, fmt.Errorf("%w in %s", ErrSchema, name)
}

// DetectDuplicates fails on the first normalized name seen twice. sources
// is aligned with names; the first occurrence's source is kept for the
// error message.
func DetectDuplicates(kind Kind, names, sources []string) error {
	seen := make(map[string]string, len(names))
	for i, name := range names {
		key := competency.NormalizeName(name)
		if key == "" {
			// blank names are reported by Validate
			continue
		}
		src := ""
		if i < len(sources) {
			src = sources[i]
		}
		if first, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s '%s' found in files: %s and %s", ErrDuplicate, kind, name, first, src)
		}
		seen[key] = src
	}
	return nil
}

func mappingKeys(n *yaml.Node) map[string]bool {
	keys := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys[n.Content[i].Value] = true
	}
	return keys
}

func attachCategory(skills []SkillDoc, category string) []SkillDoc {
	for i := range skills {
		skills[i].CategoryName = category
	}
	return skills
}

func categoryNames(cs []CategoryDoc) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func roleNames(rs []RoleDoc) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
