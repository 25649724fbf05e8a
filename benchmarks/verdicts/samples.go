// ABOUTME: Labelled samples for the verdict accuracy benchmark
// ABOUTME: Each sample is a short markdown section with the verdict a careful editor would give

package verdicts

// Sample is one labelled benchmark document
type Sample struct {
	ID          string
	Name        string
	Text        string
	Grammatical bool
	Natural     bool
}

// Samples returns the built-in benchmark set
func Samples() []Sample {
	return []Sample{
		{
			ID:          "clean_prose",
			Name:        "Clean technical prose",
			Text:        "# Installing\n\nRun the installer and follow the prompts. The tool is ready when the wizard closes.",
			Grammatical: true,
			Natural:     true,
		},
		{
			ID:          "modal_error",
			Name:        "Broken modal verb",
			Text:        "# Notes\n\nThis one maybe not be correct.",
			Grammatical: false,
			Natural:     false,
		},
		{
			ID:          "agreement_error",
			Name:        "Subject-verb agreement",
			Text:        "# Results\n\nThe list of files are sorted by name before they is written.",
			Grammatical: false,
			Natural:     false,
		},
		{
			ID:          "stilted",
			Name:        "Grammatical but stilted",
			Text:        "# Usage\n\nIt is by the user that the configuration file is to be edited prior to the starting of the service.",
			Grammatical: true,
			Natural:     false,
		},
		{
			ID:          "missing_article",
			Name:        "Missing articles",
			Text:        "# Setup\n\nOpen configuration file and set value of timeout to thirty seconds.",
			Grammatical: false,
			Natural:     false,
		},
		{
			ID:          "list_section",
			Name:        "Bulleted list",
			Text:        "## Requirements\n\n- A recent Go toolchain\n- Network access for the first build\n- An API key for the model provider",
			Grammatical: true,
			Natural:     true,
		},
	}
}

// SampleByID returns the sample with the given id
func SampleByID(id string) (Sample, bool) {
	for _, s := range Samples() {
		if s.ID == id {
			return s, true
		}
	}
	return Sample{}, false
}
