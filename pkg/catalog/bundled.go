package catalog

import (
	"context"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/dsl"
)

// Bundled returns fresh copies of the built-in complaint graphs.
func Bundled() []*domain.ComplaintGraph {
	return []*domain.ComplaintGraph{
		chestPain(),
		headache(),
		abdominalPain(),
	}
}

// BuiltinLoader serves the bundled graphs as a ports.GraphLoader.
type BuiltinLoader struct{}

// LoadGraphs returns the bundled graphs.
func (BuiltinLoader) LoadGraphs(_ context.Context) ([]*domain.ComplaintGraph, error) {
	return Bundled(), nil
}

func chestPain() *domain.ComplaintGraph {
	g := dsl.New("chest-pain", "Chest Pain")

	g.Add("onset").
		Question("When did the chest pain start?").
		Date().
		Go("character")

	g.Add("character").
		Question("How would you describe the pain?").
		Choice("Sharp", "Dull", "Crushing", "Burning", "Aching", "Stabbing").
		Go("location")

	g.Add("location").
		Question("Where is the pain located?").
		Choice("Center of chest", "Left side of chest", "Right side of chest", "Upper chest", "Lower chest").
		Go("radiation")

	g.Add("radiation").
		Question("Does the pain radiate to other areas?").
		Choice("No", "Left arm", "Right arm", "Jaw", "Back", "Abdomen").
		Go("severity")

	g.Add("severity").
		Question("On a scale of 1-10, how severe is the pain?").
		Number().
		Go("exacerbating")

	g.Add("exacerbating").
		Question("What makes the pain worse?").
		Choice("Physical exertion", "Deep breathing", "Lying flat", "Emotional stress", "Nothing specific").
		Go("alleviating")

	g.Add("alleviating").
		Question("What makes the pain better?").
		Choice("Rest", "Sitting up", "Antacids", "Pain medication", "Nothing helps").
		Go("associated")

	g.Add("associated").
		Question("Are there any associated symptoms?").
		Choice("Shortness of breath", "Sweating", "Nausea/vomiting", "Dizziness/lightheadedness", "None").
		Branch("Shortness of breath", "red_flag_cardiac").
		Branch("Sweating", "red_flag_cardiac")

	g.Add("red_flag_cardiac").
		Question("Has the pain lasted more than 15 minutes at rest?").
		YesNo().
		RedFlag("Prolonged chest pain at rest with autonomic or respiratory symptoms - urgent ECG and cardiac evaluation required.")

	return g.MustBuild()
}

func headache() *domain.ComplaintGraph {
	g := dsl.New("headache", "Headache")

	g.Add("onset").
		Question("When did the headache start?").
		Date().
		Go("frequency")

	g.Add("frequency").
		Question("How often do you experience these headaches?").
		Choice("First time", "Daily", "Weekly", "Monthly", "Occasionally").
		Branch("First time", "red_flag_thunderclap").
		Go("character")

	g.Add("red_flag_thunderclap").
		Question("Did the headache reach its worst intensity within a minute of starting?").
		YesNo().
		RedFlag("Thunderclap onset of first severe headache - urgent evaluation to exclude subarachnoid haemorrhage.").
		Go("character")

	g.Add("character").
		Question("How would you describe the pain?").
		Choice("Throbbing", "Dull", "Sharp", "Pressure", "Burning").
		Go("location")

	g.Add("location").
		Question("Where is the headache located?").
		Choice("Entire head", "Front of head", "Back of head", "One side only", "Behind the eyes").
		Go("severity")

	g.Add("severity").
		Question("On a scale of 1-10, how severe is the headache?").
		Number().
		Go("aura")

	g.Add("aura").
		Question("Do you experience any warning signs before the headache starts?").
		Choice("Visual disturbances", "Nausea", "Sensitivity to light", "Sensitivity to sound", "None").
		Go("exacerbating")

	g.Add("exacerbating").
		Question("What makes the headache worse?").
		Choice("Light", "Noise", "Movement", "Stress", "Certain foods", "Nothing specific").
		Go("alleviating")

	g.Add("alleviating").
		Question("What makes the headache better?").
		Choice("Rest in dark room", "Sleep", "Pain medication", "Caffeine", "Nothing helps")

	return g.MustBuild()
}

func abdominalPain() *domain.ComplaintGraph {
	g := dsl.New("abdominal-pain", "Abdominal Pain")

	g.Add("onset").
		Question("When did the abdominal pain start?").
		Date().
		Go("onset_type")

	g.Add("onset_type").
		Question("How did the pain begin?").
		Choice("Suddenly", "Gradually").
		Go("character")

	g.Add("character").
		Question("How would you describe the pain?").
		Choice("Cramping", "Sharp", "Dull", "Burning", "Colicky").
		Go("location")

	g.Add("location").
		Question("Where is the pain located?").
		Choice("Upper right abdomen", "Upper middle abdomen", "Upper left abdomen", "Area around the navel",
			"Lower right abdomen", "Lower middle abdomen", "Lower left abdomen", "Entire abdomen").
		Go("radiation")

	g.Add("radiation").
		Question("Does the pain spread anywhere else?").
		Choice("No", "Back", "Shoulder", "Groin", "Chest").
		Branch("Chest", "red_flag_cardiac").
		Go("severity")

	g.Add("red_flag_cardiac").
		Question("Is the pain accompanied by chest tightness, shortness of breath or sweating?").
		YesNo().
		RedFlag("Abdominal pain with cardiac features - urgent cardiac evaluation (ECG, troponin) recommended.").
		Go("severity")

	g.Add("severity").
		Question("On a scale of 1-10, how severe is the pain?").
		Number().
		Go("timing")

	g.Add("timing").
		Question("Is the pain constant or does it come and go?").
		Choice("Constant", "Intermittent", "Coming in waves").
		Go("duration")

	g.Add("duration").
		Question("How long have you had the pain?").
		Choice("Less than 6 hours", "6 to 24 hours", "1 to 3 days", "More than 3 days").
		Go("exacerbating")

	g.Add("exacerbating").
		Question("What makes the pain worse?").
		Choice("Eating", "Movement", "Coughing", "Lying flat", "Nothing specific").
		Go("food_relation")

	g.Add("food_relation").
		Question("How does eating affect the pain?").
		Choice("Worse after eating", "Better after eating", "Unrelated to meals").
		Go("alleviating")

	g.Add("alleviating").
		Question("What makes the pain better?").
		Choice("Rest", "Vomiting", "Passing stool or gas", "Antacids", "Nothing helps").
		Go("associated")

	g.Add("associated").
		Question("Are there any associated symptoms?").
		Choice("Nausea/vomiting", "Fever", "Diarrhea", "Constipation", "Bloating", "None").
		Branch("Nausea/vomiting", "nausea_detail").
		Branch("Fever", "fever").
		Go("bowel_changes")

	g.Add("nausea_detail").
		Question("Have you vomited?").
		Choice("Nausea without vomiting", "Vomiting food", "Vomiting bile", "Vomiting blood").
		Go("red_flag_gi_bleed")

	g.Add("red_flag_gi_bleed").
		Question("Have you noticed any blood in your vomit or stool?").
		Choice("No bleeding", "Blood in vomit", "Black tarry stool", "Bright red blood in stool").
		RedFlagUnless("Possible gastrointestinal bleeding - urgent assessment and haemoglobin check required.", "No bleeding").
		Go("bowel_changes")

	g.Add("fever").
		Question("How high has your temperature been?").
		Choice("None", "Low grade (below 38.5C)", "High grade (38.5C or above)", "With shaking chills").
		RedFlagUnless("Fever with abdominal pain - consider intra-abdominal infection.", "None").
		Go("bowel_changes")

	g.Add("bowel_changes").
		Question("Have your bowel habits changed?").
		Choice("No change", "Diarrhea", "Constipation", "Unable to pass stool or gas").
		Go("red_flag_peritonism")

	g.Add("red_flag_peritonism").
		Question("Is the pain much worse when moving, coughing or when the abdomen is pressed and released?").
		YesNo().
		RedFlag("Signs of peritoneal irritation - urgent surgical review recommended.").
		Go("medical_history")

	g.Add("medical_history").
		Question("Do you have any medical conditions?").
		Text().
		Go("surgical_history")

	g.Add("surgical_history").
		Question("Have you had any abdominal surgery?").
		Text().
		Go("female_branch")

	g.Add("female_branch").
		Question("Is the patient female and of reproductive age?").
		YesNo().
		Branch("Yes", "lmp").
		Go("last_meal")

	g.Add("lmp").
		Question("When was the first day of your last menstrual period?").
		Date().
		Go("pregnancy_possible")

	g.Add("pregnancy_possible").
		Question("Is there any chance you could be pregnant?").
		YesNo().
		Branch("Yes", "red_flag_ectopic").
		Go("pregnancy_test")

	g.Add("red_flag_ectopic").
		Question("Do you have vaginal bleeding or pain at the tip of your shoulder?").
		YesNo().
		RedFlag("Possible ectopic pregnancy - urgent gynaecological assessment and serum beta-hCG required.").
		Go("pregnancy_test")

	g.Add("pregnancy_test").
		Question("What was the result of a pregnancy test?").
		Choice("Positive", "Negative", "Not done").
		Go("last_meal")

	g.Add("last_meal").
		Question("When did you last eat or drink?").
		Text()

	return g.MustBuild()
}
