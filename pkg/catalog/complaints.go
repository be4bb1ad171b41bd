package catalog

// CommonComplaints is the ordered list offered by the complaint picker.
var CommonComplaints = []string{
	"Chest Pain",
	"Shortness of Breath",
	"Headache",
	"Abdominal Pain",
	"Fever",
	"Back Pain",
	"Joint Pain",
	"Dizziness",
	"Nausea/Vomiting",
	"Fatigue",
	"Cough",
	"Rash",
	"Diarrhea",
	"Depression",
	"Anxiety",
}
