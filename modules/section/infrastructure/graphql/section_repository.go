package graphql

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/section-editor/modules/section/domain/aggregates/section"
)

type tagDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type sectionDTO struct {
	ID           int64    `json:"id"`
	TemplateID   int64    `json:"templateId"`
	Name         string   `json:"name"`
	Introduction *string  `json:"introduction"`
	Requirements *string  `json:"requirements"`
	Guidance     *string  `json:"guidance"`
	DisplayOrder int      `json:"displayOrder"`
	BestPractice bool     `json:"bestPractice"`
	Tags         []tagDTO `json:"tags"`
}

type updateSectionInputDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Introduction string  `json:"introduction"`
	Requirements string  `json:"requirements"`
	Guidance     string  `json:"guidance"`
	DisplayOrder int     `json:"displayOrder"`
	BestPractice bool    `json:"bestPractice"`
	TagIDs       []int64 `json:"tagIds"`
}

type SectionRepository struct {
	client *Client
}

func NewSectionRepository(client *Client) section.Repository {
	return &SectionRepository{client: client}
}

func (r *SectionRepository) GetByID(ctx context.Context, id int64) (section.Section, error) {
	var data struct {
		Section *sectionDTO `json:"section"`
	}
	if err := r.client.Do(ctx, "getSection", getSectionQuery, map[string]any{"id": id}, &data); err != nil {
		return section.Section{}, errors.Wrapf(err, "get section %d", id)
	}
	if data.Section == nil {
		return section.Section{}, errors.Wrapf(section.ErrNotFound, "id=%d", id)
	}
	return toDomainSection(*data.Section), nil
}

func (r *SectionRepository) Tags(ctx context.Context) ([]section.Tag, error) {
	var data struct {
		Tags []tagDTO `json:"tags"`
	}
	if err := r.client.Do(ctx, "getTags", getTagsQuery, nil, &data); err != nil {
		return nil, errors.Wrap(err, "get tags")
	}
	return toDomainTags(data.Tags), nil
}

func (r *SectionRepository) Update(ctx context.Context, input section.UpdateInput) (section.UpdateResult, error) {
	tagIDs := input.TagIDs
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	vars := map[string]any{
		"input": updateSectionInputDTO{
			ID:           input.ID,
			Name:         input.Name,
			Introduction: input.Introduction,
			Requirements: input.Requirements,
			Guidance:     input.Guidance,
			DisplayOrder: input.DisplayOrder,
			BestPractice: input.BestPractice,
			TagIDs:       tagIDs,
		},
	}
	var data struct {
		UpdateSection struct {
			Section *sectionDTO        `json:"section"`
			Errors  map[string]*string `json:"errors"`
		} `json:"updateSection"`
	}
	if err := r.client.Do(ctx, "updateSection", updateSectionMutation, vars, &data); err != nil {
		return section.UpdateResult{}, errors.Wrapf(err, "update section %d", input.ID)
	}

	var res section.UpdateResult
	if s := data.UpdateSection.Section; s != nil {
		sec := toDomainSection(*s)
		res.Section = &sec
	}
	if errs := data.UpdateSection.Errors; errs != nil {
		res.Errors = make(map[string]string, len(errs))
		for k, v := range errs {
			res.Errors[k] = deref(v)
		}
	}
	return res, nil
}

func (r *SectionRepository) Remove(ctx context.Context, id int64) (section.RemoveResult, error) {
	var data struct {
		RemoveSection *struct {
			ID int64 `json:"id"`
		} `json:"removeSection"`
	}
	if err := r.client.Do(ctx, "removeSection", removeSectionMutation, map[string]any{"id": id}, &data); err != nil {
		return section.RemoveResult{}, errors.Wrapf(err, "remove section %d", id)
	}
	if data.RemoveSection == nil {
		return section.RemoveResult{}, nil
	}
	return section.RemoveResult{ID: data.RemoveSection.ID}, nil
}

func toDomainSection(dto sectionDTO) section.Section {
	return section.Section{
		ID:           dto.ID,
		TemplateID:   dto.TemplateID,
		Name:         dto.Name,
		Introduction: deref(dto.Introduction),
		Requirements: deref(dto.Requirements),
		Guidance:     deref(dto.Guidance),
		DisplayOrder: dto.DisplayOrder,
		BestPractice: dto.BestPractice,
		Tags:         toDomainTags(dto.Tags),
	}
}

func toDomainTags(dtos []tagDTO) []section.Tag {
	tags := make([]section.Tag, 0, len(dtos))
	for _, t := range dtos {
		tags = append(tags, section.Tag{ID: t.ID, Name: t.Name, Description: deref(t.Description)})
	}
	return tags
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
