package narrative_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/catalog"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/narrative"
)

var fixedNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newGenerator(now time.Time) *narrative.Generator {
	return narrative.New(catalog.Default(), narrative.WithClock(func() time.Time { return now }))
}

func record(complaint string, answers domain.AnswerMap) *domain.PatientRecord {
	return &domain.PatientRecord{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Age:            36,
		Gender:         "female",
		DateOfVisit:    "2024-03-15",
		ChiefComplaint: complaint,
		Answers:        answers,
	}
}

func TestGenerate_ExactLayout(t *testing.T) {
	r := record("Chest Pain", domain.NewAnswerMap(
		"onset", "2024-03-14",
		"character", "Sharp",
		"severity", 7.0,
	))

	want := "# PATIENT HISTORY\n" +
		"\n" +
		"## DEMOGRAPHICS\n" +
		"Ada Lovelace, 36 year old female\n" +
		"Date of Visit: 2024-03-15\n" +
		"\n" +
		"## CHIEF COMPLAINT\n" +
		"Chest Pain\n" +
		"\n" +
		"## HISTORY OF PRESENT ILLNESS\n" +
		"Patient presents with chest pain that started yesterday. The pain is described as sharp. Patient would rate the pain as 7/10 in severity.\n" +
		"\n" +
		"## ASSESSMENT\n" +
		"Chest Pain - clinical correlation required.\n" +
		"\n" +
		"## PLAN\n" +
		"1. Complete physical examination focused on the presenting complaint.\n" +
		"2. Order investigations as clinically indicated.\n" +
		"3. Arrange follow-up and review results with the patient."

	assert.Equal(t, want, newGenerator(fixedNow).Generate(r))
}

func TestGenerate_ChestPainScenario(t *testing.T) {
	r := record("Chest Pain", domain.NewAnswerMap(
		"onset", fixedNow.Format(domain.DateLayout),
		"character", "Sharp",
		"location", "Center of chest",
		"radiation", "No",
		"severity", 8,
		"exacerbating", "Physical exertion",
		"alleviating", "Rest",
		"associated", "None",
	))

	out := newGenerator(fixedNow).Generate(r)

	assert.Contains(t, out, "started today")
	assert.Contains(t, out, "described as sharp")
	assert.Contains(t, out, "located in the center of chest")
	assert.NotContains(t, out, "radiates")
	assert.Contains(t, out, "rate the pain as 8/10")
	assert.Contains(t, out, "worsened by physical exertion")
	assert.Contains(t, out, "alleviated by rest")
	assert.NotContains(t, out, "Associated symptoms")
	assert.NotContains(t, out, "WARNING")
}

func TestGenerate_AbdominalCardiacRedFlag(t *testing.T) {
	r := record("Abdominal Pain", domain.NewAnswerMap(
		"onset", "2024-03-13",
		"radiation", "Chest",
		"red_flag_cardiac", "Yes",
		"severity", 6,
	))

	out := newGenerator(fixedNow).Generate(r)

	assert.Contains(t, out, "\n"+narrative.WarningHeading+"\n")
	assert.Contains(t, out, "cardiac evaluation")
	assert.Contains(t, out, "## ASSESSMENT\nAbdominal Pain - clinical correlation required.")
	assert.Contains(t, out, "## PLAN\n1. ")
	assert.Contains(t, out, "The pain radiates to the chest.")

	hpiEnd := strings.Index(out, narrative.WarningHeading)
	assessment := strings.Index(out, "## ASSESSMENT")
	assert.Less(t, strings.Index(out, "## HISTORY OF PRESENT ILLNESS"), hpiEnd)
	assert.Less(t, hpiEnd, assessment)
}

func TestGenerate_RedFlagAnswersInHPI(t *testing.T) {
	gen := newGenerator(fixedNow)

	t.Run("pertinent negative", func(t *testing.T) {
		r := record("Chest Pain", domain.NewAnswerMap(
			"onset", fixedNow.Format(domain.DateLayout),
			"associated", "Sweating",
			"red_flag_cardiac", "No",
		))

		out := gen.Generate(r)
		assert.Contains(t, out, "Associated symptoms include sweating. Has the pain lasted more than 15 minutes at rest? No.")
		assert.NotContains(t, out, "WARNING")
	})

	t.Run("choice value kept alongside warning", func(t *testing.T) {
		r := record("Abdominal Pain", domain.NewAnswerMap(
			"fever", "High grade (38.5C or above)",
		))

		out := gen.Generate(r)
		assert.Contains(t, out, "Patient presents with abdominal pain. How high has your temperature been? High grade (38.5C or above).")
		assert.Contains(t, out, narrative.WarningHeading)
		assert.Contains(t, out, "intra-abdominal infection")
	})
}

func TestGenerate_RedFlagPredicate(t *testing.T) {
	gen := newGenerator(fixedNow)

	cases := []struct {
		name    string
		answers domain.AnswerMap
		warn    bool
	}{
		{"yes raises", domain.NewAnswerMap("red_flag_cardiac", "Yes"), true},
		{"no does not", domain.NewAnswerMap("red_flag_cardiac", "No"), false},
		{"absent does not", domain.NewAnswerMap("severity", 4), false},
		{"lowercase yes does not", domain.NewAnswerMap("red_flag_cardiac", "yes"), false},
		{"fever none does not", domain.NewAnswerMap("fever", "None"), false},
		{"fever grade raises", domain.NewAnswerMap("fever", "High grade (38.5C or above)"), true},
		{"no bleeding does not", domain.NewAnswerMap("red_flag_gi_bleed", "No bleeding"), false},
		{"bleeding raises", domain.NewAnswerMap("red_flag_gi_bleed", "Blood in vomit"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := record("Abdominal Pain", tc.answers)
			out := gen.Generate(r)
			assert.Equal(t, tc.warn, strings.Contains(out, "WARNING"), out)
			assert.Equal(t, tc.warn, gen.HasRedFlags(r))
		})
	}
}

func TestGenerate_LegacyRedFlagOutsideGraph(t *testing.T) {
	gen := newGenerator(fixedNow)
	r := record("Chest Pain", domain.NewAnswerMap("character", "Dull", "red_flag_sepsis", "Yes"))

	notes := gen.RedFlags(r)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "sepsis")

	out := gen.Generate(r)
	assert.Contains(t, out, narrative.WarningHeading)
	assert.NotContains(t, out, "red_flag_sepsis Yes", "red flags are not repeated as generic clauses")
}

func TestGenerate_Sentinels(t *testing.T) {
	gen := newGenerator(fixedNow)

	t.Run("chief complaint unset", func(t *testing.T) {
		r := record("", domain.NewAnswerMap("onset", "2024-03-01"))
		assert.Equal(t, narrative.InsufficientData, gen.Generate(r))
	})
	t.Run("no answers", func(t *testing.T) {
		assert.Equal(t, narrative.InsufficientData, gen.Generate(record("Chest Pain", domain.AnswerMap{})))
	})
	t.Run("nil record", func(t *testing.T) {
		assert.Equal(t, narrative.InsufficientData, gen.Generate(nil))
	})
	t.Run("unknown complaint", func(t *testing.T) {
		r := record("Fever", domain.NewAnswerMap("onset", "2024-03-01"))
		assert.Equal(t, narrative.ComplaintNotFound, gen.Generate(r))
		assert.False(t, gen.HasRedFlags(r))
	})
	t.Run("no catalog", func(t *testing.T) {
		r := record("Chest Pain", domain.NewAnswerMap("onset", "2024-03-01"))
		assert.Equal(t, narrative.ComplaintNotFound, narrative.New(nil).Generate(r))
	})
}

func TestGenerate_Onset(t *testing.T) {
	cases := []struct {
		name  string
		now   time.Time
		onset string
		want  string
	}{
		{"today", fixedNow, "2024-03-15", "that started today."},
		{"today just before midnight", time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC), "2024-03-15", "that started today."},
		{"yesterday", fixedNow, "2024-03-14", "that started yesterday."},
		{"ten days", fixedNow, "2024-03-05", "that started 10 days ago."},
		{"across month end", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), "2024-02-28", "that started 2 days ago."},
		{"timestamp", fixedNow, "2024-03-12T09:00:00Z", "that started 3 days ago."},
		{"unparseable", fixedNow, "last week", "that started on last week."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := newGenerator(tc.now).Generate(record("Chest Pain", domain.NewAnswerMap("onset", tc.onset)))
			assert.Contains(t, out, "Patient presents with chest pain "+tc.want)
		})
	}
}

func TestDaysSince_LocalClock(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 01:00 local on the 16th is still the 15th in UTC; the local calendar date wins.
	now := time.Date(2024, 3, 16, 1, 0, 0, 0, loc)
	days, ok := narrative.DaysSince("2024-03-16", now)
	require.True(t, ok)
	assert.Equal(t, 0, days)
}

func TestGenerate_NoOnsetEndsSentence(t *testing.T) {
	out := newGenerator(fixedNow).Generate(record("Chest Pain", domain.NewAnswerMap("character", "Dull")))
	assert.Contains(t, out, "Patient presents with chest pain. The pain is described as dull.")
}

func TestGenerate_GenericClausesFollowKnownOnes(t *testing.T) {
	r := record("Headache", domain.NewAnswerMap(
		"aura", "Visual disturbances",
		"onset", "2024-03-15",
		"frequency", "Weekly",
		"character", "Throbbing",
		"unrelated_key", "ignored",
	))

	out := newGenerator(fixedNow).Generate(r)

	assert.Contains(t, out,
		"Patient presents with headache that started today. The pain is described as throbbing."+
			" Do you experience any warning signs before the headache starts? Visual disturbances."+
			" How often do you experience these headaches? Weekly.")
	assert.NotContains(t, out, "ignored")
}

func TestGenerate_AbdominalClauseOrder(t *testing.T) {
	r := record("Abdominal Pain", domain.NewAnswerMap(
		"last_meal", "Toast at 8am",
		"female_branch", "Yes",
		"lmp", "2024-02-20",
		"pregnancy_possible", "No",
		"pregnancy_test", "Negative",
		"surgical_history", "Appendectomy 2010",
		"medical_history", "Type 2 diabetes",
		"bowel_changes", "Constipation",
		"nausea_detail", "Vomiting food",
		"associated", "Nausea/vomiting",
		"food_relation", "Worse after eating",
		"timing", "Intermittent",
		"duration", "1 to 3 days",
		"onset_type", "Gradually",
	))

	out := newGenerator(fixedNow).Generate(r)

	ordered := []string{
		"The onset was gradually.",
		"The pain is intermittent.",
		"Symptoms have been present for 1 to 3 days.",
		"In relation to meals, the pain is worse after eating.",
		"Associated symptoms include nausea/vomiting.",
		"Regarding nausea, the patient reports vomiting food.",
		"Bowel habits: constipation.",
		"Past medical history: Type 2 diabetes.",
		"Past surgical history: Appendectomy 2010.",
		"The patient is female and of reproductive age. Last menstrual period began on 2024-02-20. She reports that pregnancy is not possible. Pregnancy test: negative.",
		"Last oral intake: Toast at 8am.",
	}
	last := -1
	for _, s := range ordered {
		idx := strings.Index(out, s)
		require.NotEqual(t, -1, idx, "missing %q in\n%s", s, out)
		assert.Greater(t, idx, last, "%q out of order", s)
		last = idx
	}
}

func TestGenerate_FemaleBranchNo(t *testing.T) {
	r := record("Abdominal Pain", domain.NewAnswerMap("female_branch", "No", "last_meal", "Lunch"))
	out := newGenerator(fixedNow).Generate(r)
	assert.NotContains(t, out, "reproductive age")
	assert.Contains(t, out, "Last oral intake: Lunch.")
}

func TestGenerate_Deterministic(t *testing.T) {
	gen := newGenerator(fixedNow)
	r := record("Abdominal Pain", domain.NewAnswerMap(
		"onset", "2024-03-10",
		"red_flag_cardiac", "Yes",
		"fever", "With shaking chills",
		"severity", 9,
	))

	first := gen.Generate(r)
	assert.Equal(t, first, gen.Generate(r))

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = gen.Generate(r)
		}(i)
	}
	wg.Wait()
	for _, out := range results {
		assert.Equal(t, first, out)
	}
}

func TestGenerate_DefaultVisitDate(t *testing.T) {
	r := record("Chest Pain", domain.NewAnswerMap("character", "Dull"))
	r.DateOfVisit = ""
	assert.Contains(t, newGenerator(fixedNow).Generate(r), "Date of Visit: 2024-03-15\n")
}
