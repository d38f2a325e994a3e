package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/veracomply/veracomply-backend/internal/logger"
	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/scoring"
	"github.com/veracomply/veracomply-backend/internal/types"
)

// File is the YAML seed document: questionnaire templates plus the
// remediation-vendor catalog.
type File struct {
	Templates []TemplateDef `yaml:"templates"`
	Vendors   []VendorDef   `yaml:"vendors"`
}

type TemplateDef struct {
	Name      string       `yaml:"name"`
	Framework string       `yaml:"framework"`
	Version   int          `yaml:"version"`
	Sections  []SectionDef `yaml:"sections"`
}

type SectionDef struct {
	Title     string        `yaml:"title"`
	Category  string        `yaml:"category"`
	Weight    float64       `yaml:"weight"`
	Questions []QuestionDef `yaml:"questions"`
}

type QuestionDef struct {
	Prompt    string         `yaml:"prompt"`
	Type      string         `yaml:"type"`
	RawWeight float64        `yaml:"raw_weight"`
	Required  *bool          `yaml:"required"`
	Rule      map[string]any `yaml:"rule"`
}

type VendorDef struct {
	Name       string   `yaml:"name"`
	Website    string   `yaml:"website"`
	Categories []string `yaml:"categories"`
}

func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// BuildTemplate converts a definition into the stored model. The result is
// validated the same way publish does, so a bad seed file fails before any
// rows are written.
func BuildTemplate(def TemplateDef) (*types.Template, error) {
	version := def.Version
	if version == 0 {
		version = 1
	}
	tpl := &types.Template{
		ID:        uuid.New(),
		Name:      def.Name,
		Framework: def.Framework,
		Version:   version,
		Status:    types.TemplateStatusDraft,
	}
	for si, sd := range def.Sections {
		section := types.Section{
			ID:         uuid.New(),
			TemplateID: tpl.ID,
			Title:      sd.Title,
			Category:   sd.Category,
			Weight:     sd.Weight,
			Position:   si,
		}
		for qi, qd := range sd.Questions {
			rawWeight := qd.RawWeight
			if rawWeight == 0 {
				rawWeight = 1
			}
			required := true
			if qd.Required != nil {
				required = *qd.Required
			}
			rule, err := json.Marshal(qd.Rule)
			if err != nil {
				return nil, fmt.Errorf("template %q section %q question %q: marshal rule: %w",
					def.Name, sd.Title, qd.Prompt, err)
			}
			section.Questions = append(section.Questions, types.Question{
				ID:          uuid.New(),
				SectionID:   section.ID,
				Prompt:      qd.Prompt,
				Type:        qd.Type,
				Position:    qi,
				RawWeight:   rawWeight,
				Required:    required,
				ScoringRule: datatypes.JSON(rule),
			})
		}
		tpl.Sections = append(tpl.Sections, section)
	}

	nt, err := scoring.NormalizeTemplate(tpl)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", def.Name, err)
	}
	if err := nt.ValidateRules(); err != nil {
		return nil, fmt.Errorf("template %q: %w", def.Name, err)
	}
	return tpl, nil
}

func BuildVendors(defs []VendorDef) ([]types.Vendor, error) {
	out := make([]types.Vendor, 0, len(defs))
	for _, vd := range defs {
		if vd.Name == "" {
			return nil, fmt.Errorf("vendor with empty name")
		}
		categories, err := json.Marshal(vd.Categories)
		if err != nil {
			return nil, fmt.Errorf("vendor %q: marshal categories: %w", vd.Name, err)
		}
		out = append(out, types.Vendor{
			ID:         uuid.New(),
			Name:       vd.Name,
			Website:    vd.Website,
			Categories: datatypes.JSON(categories),
		})
	}
	return out, nil
}

// Loader writes a parsed seed file into the store. Templates are created and
// published in one step; vendors are upserted by name so reseeding is safe.
type Loader struct {
	log       *logger.Logger
	templates repos.TemplateRepo
	vendors   repos.VendorRepo
}

func NewLoader(baseLog *logger.Logger, templates repos.TemplateRepo, vendors repos.VendorRepo) *Loader {
	return &Loader{
		log:       baseLog.With("component", "SeedLoader"),
		templates: templates,
		vendors:   vendors,
	}
}

func (l *Loader) Load(ctx context.Context, f *File) error {
	for _, def := range f.Templates {
		tpl, err := BuildTemplate(def)
		if err != nil {
			return err
		}
		if _, err := l.templates.Create(ctx, nil, tpl); err != nil {
			return fmt.Errorf("create template %q: %w", def.Name, err)
		}
		if err := l.templates.SetStatus(ctx, nil, tpl.ID, types.TemplateStatusPublished); err != nil {
			return fmt.Errorf("publish template %q: %w", def.Name, err)
		}
		l.log.Info("Seeded template", "name", def.Name, "template_id", tpl.ID)
	}

	vendors, err := BuildVendors(f.Vendors)
	if err != nil {
		return err
	}
	if len(vendors) > 0 {
		if err := l.vendors.UpsertByName(ctx, nil, vendors); err != nil {
			return fmt.Errorf("upsert vendors: %w", err)
		}
		l.log.Info("Seeded vendors", "count", len(vendors))
	}
	return nil
}
