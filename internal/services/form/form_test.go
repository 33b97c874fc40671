package form

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/resume-builder/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newSeeded(t *testing.T) *Aggregator {
	t.Helper()
	a := New(0, 0, newNoopLogger())
	a.Reset()
	return a
}

func workLabels(v View) []string {
	out := make([]string, 0, len(v.Work))
	for _, e := range v.Work {
		out = append(out, e.Label)
	}
	return out
}

func workIDs(v View) []int {
	out := make([]int, 0, len(v.Work))
	for _, e := range v.Work {
		out = append(out, e.ID)
	}
	return out
}

func TestWorkLabel(t *testing.T) {
	tests := []struct {
		pos, n int
		want   string
	}{
		{pos: 1, n: 1, want: "Company 1 (Most Recent - Senior)"},
		{pos: 1, n: 2, want: "Company 1 (Most Recent - Senior)"},
		{pos: 2, n: 2, want: "Company 2 (Earliest - Junior)"},
		{pos: 2, n: 3, want: "Company 2"},
		{pos: 3, n: 3, want: "Company 3 (Earliest - Junior)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WorkLabel(tt.pos, tt.n))
	}
	assert.Equal(t, "Education 3", EducationLabel(3))
}

func TestAggregator_ResetSeedsDefaults(t *testing.T) {
	a := newSeeded(t)
	v := a.View()

	require.Len(t, v.Work, 4)
	require.Len(t, v.Education, 2)
	assert.Equal(t, []string{
		"Company 1 (Most Recent - Senior)",
		"Company 2",
		"Company 3",
		"Company 4 (Earliest - Junior)",
	}, workLabels(v))
	assert.Equal(t, "Education 1", v.Education[0].Label)
	assert.Equal(t, "Education 2", v.Education[1].Label)
	assert.Equal(t, []int{1, 2, 3, 4}, workIDs(v))
}

func TestAggregator_RemoveRenumbersAndKeepsIDs(t *testing.T) {
	a := newSeeded(t)

	require.NoError(t, a.Remove(KindWork, 1))
	id := a.AddWork(models.WorkExperience{Company: "Acme"})
	assert.Equal(t, 5, id, "identifiers are never reused")

	v := a.View()
	assert.Equal(t, []int{2, 3, 4, 5}, workIDs(v))
	assert.Equal(t, "Company 1 (Most Recent - Senior)", v.Work[0].Label)
	assert.Equal(t, "Company 4 (Earliest - Junior)", v.Work[3].Label)
	assert.Equal(t, "Acme", v.Work[3].Values.Company)
}

func TestAggregator_WorkFloor(t *testing.T) {
	a := newSeeded(t)

	for _, id := range []int{1, 2, 3} {
		require.NoError(t, a.Remove(KindWork, id))
	}
	assert.ErrorIs(t, a.Remove(KindWork, 4), ErrLastWorkEntry)
	assert.Equal(t, 1, a.Len(KindWork))
	assert.Equal(t, "Company 1 (Most Recent - Senior)", a.View().Work[0].Label)
}

func TestAggregator_EducationHasNoFloor(t *testing.T) {
	a := newSeeded(t)

	require.NoError(t, a.Remove(KindEducation, 1))
	require.NoError(t, a.Remove(KindEducation, 2))
	assert.Equal(t, 0, a.Len(KindEducation))
	assert.ErrorIs(t, a.Remove(KindEducation, 2), ErrEntryNotFound)
}

func TestAggregator_RemoveErrors(t *testing.T) {
	a := newSeeded(t)

	assert.ErrorIs(t, a.Remove(KindWork, 42), ErrEntryNotFound)
	assert.ErrorIs(t, a.Remove(Kind("skills"), 1), ErrUnknownKind)
	assert.ErrorIs(t, a.UpdateWork(42, models.WorkExperience{}), ErrEntryNotFound)
	assert.ErrorIs(t, a.UpdateEducation(42, models.Education{}), ErrEntryNotFound)

	_, err := a.AddBlank(Kind("skills"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestAggregator_Serialize(t *testing.T) {
	a := newSeeded(t)

	a.SetPersonal(models.PersonalInfo{Name: "  Ann Lee ", Email: " ann@example.com", LinkedIn: "in/ann  "})
	a.SetLanguages("English\n\n  German  \n \n")
	a.SetJobDescription("\n Senior Go developer \n")
	require.NoError(t, a.UpdateWork(1, models.WorkExperience{Company: " Acme ", Location: " Oslo", StartDate: "2020 ", EndDate: "Present"}))
	require.NoError(t, a.UpdateWork(2, models.WorkExperience{Company: "   ", Location: "Nowhere"}))
	require.NoError(t, a.UpdateWork(3, models.WorkExperience{Company: "Initech"}))
	require.NoError(t, a.UpdateEducation(2, models.Education{School: " MIT ", Degree: "BSc", Year: "2015 - 2019"}))

	p := a.Serialize()

	assert.Equal(t, models.PersonalInfo{Name: "Ann Lee", Email: "ann@example.com", LinkedIn: "in/ann"}, p.PersonalInfo)
	assert.Equal(t, []string{"English", "German"}, p.Languages)
	assert.Equal(t, "Senior Go developer", p.JobDescription)
	assert.Equal(t, []models.WorkExperience{
		{Company: "Acme", Location: "Oslo", StartDate: "2020", EndDate: "Present"},
		{Company: "Initech"},
	}, p.WorkExperience)
	assert.Equal(t, []models.Education{{School: "MIT", Degree: "BSc", Year: "2015 - 2019"}}, p.Education)

	// незаполненные записи остаются в форме
	assert.Equal(t, 4, a.Len(KindWork))
	assert.Equal(t, 2, a.Len(KindEducation))
}

func TestAggregator_SerializeEmptyListsAreNotNil(t *testing.T) {
	a := newSeeded(t)
	p := a.Serialize()

	assert.NotNil(t, p.WorkExperience)
	assert.NotNil(t, p.Education)
	assert.NotNil(t, p.Languages)
	assert.Empty(t, p.WorkExperience)
}

func TestAggregator_Restore(t *testing.T) {
	tests := []struct {
		name          string
		saved         models.FormPayload
		wantWork      []models.WorkExperience
		wantEducation []models.Education
	}{
		{
			name: "entries preserved in order",
			saved: models.FormPayload{
				WorkExperience: []models.WorkExperience{{Company: "B"}, {Company: "A"}, {Company: "C"}},
				Education:      []models.Education{{School: "X"}},
			},
			wantWork:      []models.WorkExperience{{Company: "B"}, {Company: "A"}, {Company: "C"}},
			wantEducation: []models.Education{{School: "X"}},
		},
		{
			name: "empty education seeds one blank",
			saved: models.FormPayload{
				WorkExperience: []models.WorkExperience{{Company: "A"}, {Company: "B"}},
				Education:      []models.Education{},
			},
			wantWork:      []models.WorkExperience{{Company: "A"}, {Company: "B"}},
			wantEducation: []models.Education{{}},
		},
		{
			name:          "both empty seed one blank each",
			saved:         models.FormPayload{},
			wantWork:      []models.WorkExperience{{}},
			wantEducation: []models.Education{{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newSeeded(t)
			a.Restore(tt.saved)
			v := a.View()

			gotWork := make([]models.WorkExperience, 0, len(v.Work))
			for i, e := range v.Work {
				gotWork = append(gotWork, e.Values)
				assert.Equal(t, i+1, e.ID, "counters restart after restore")
			}
			gotEducation := make([]models.Education, 0, len(v.Education))
			for _, e := range v.Education {
				gotEducation = append(gotEducation, e.Values)
			}
			assert.Equal(t, tt.wantWork, gotWork)
			assert.Equal(t, tt.wantEducation, gotEducation)
		})
	}
}

func TestAggregator_RestoreKeepsTextFieldsWhenSavedEmpty(t *testing.T) {
	a := newSeeded(t)
	a.SetLanguages("English")
	a.SetJobDescription("Backend role")

	a.Restore(models.FormPayload{PersonalInfo: models.PersonalInfo{Name: "Ann"}})
	v := a.View()

	assert.Equal(t, "Ann", v.PersonalInfo.Name)
	assert.Equal(t, "English", v.Languages)
	assert.Equal(t, "Backend role", v.JobDescription)

	a.Restore(models.FormPayload{Languages: []string{"French", "Spanish"}, JobDescription: "Data role"})
	v = a.View()
	assert.Equal(t, "French\nSpanish", v.Languages)
	assert.Equal(t, "Data role", v.JobDescription)
}

func TestAggregator_ResetClearsFields(t *testing.T) {
	a := newSeeded(t)
	a.SetPersonal(models.PersonalInfo{Name: "Ann"})
	a.SetLanguages("English")
	a.AddWork(models.WorkExperience{Company: "Acme"})

	a.Reset()
	v := a.View()

	assert.Equal(t, models.PersonalInfo{}, v.PersonalInfo)
	assert.Empty(t, v.Languages)
	assert.Len(t, v.Work, DefaultWorkEntries)
	assert.Len(t, v.Education, DefaultEducationEntries)
	assert.Equal(t, 1, v.Work[0].ID)
}
