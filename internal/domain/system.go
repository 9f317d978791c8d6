package domain

import "sort"

// BodySystem identifies the body system a drug primarily affects.
// Systems are an open string set discovered from the catalog data, not a
// fixed enum; the study engine treats them as opaque, equality-comparable
// tags. Display metadata lives in the lookup table below.
type BodySystem string

// SystemInfo carries display metadata for a body system.
type SystemInfo struct {
	Key   BodySystem `json:"key"`
	Label string     `json:"label"`
	Icon  string     `json:"icon"`
	Color string     `json:"color"`
}

// systemMetadata maps known system tags to their display metadata.
// New systems found in the data fall back to defaultSystemInfo.
var systemMetadata = map[BodySystem]SystemInfo{
	"ANS":             {Label: "Autonomic Nervous System", Icon: "🔗", Color: "#9f7aea"},
	"CNS":             {Label: "Central Nervous System", Icon: "🧠", Color: "#805ad5"},
	"CVS":             {Label: "Cardiovascular System", Icon: "❤️", Color: "#e53e3e"},
	"Renal":           {Label: "Renal System / Diuretics", Icon: "🫘", Color: "#4299e1"},
	"Respiratory":     {Label: "Respiratory System", Icon: "🫁", Color: "#38b2ac"},
	"GIT":             {Label: "Gastrointestinal System", Icon: "🍽️", Color: "#d69e2e"},
	"Endocrine":       {Label: "Endocrine System", Icon: "⚖️", Color: "#38a169"},
	"Reproductive":    {Label: "Reproductive System", Icon: "🌸", Color: "#ed64a6"},
	"Hematological":   {Label: "Hematological System", Icon: "🩸", Color: "#c53030"},
	"Immune":          {Label: "Immune System / Immunomodulators", Icon: "🛡️", Color: "#48bb78"},
	"Musculoskeletal": {Label: "Musculoskeletal System", Icon: "🦴", Color: "#a0aec0"},
	"Antimicrobial":   {Label: "Antimicrobial Drugs", Icon: "🦠", Color: "#3182ce"},
	"Antiparasitic":   {Label: "Antiparasitic Drugs", Icon: "🪱", Color: "#f56500"},
	"Antiviral":       {Label: "Antiviral Drugs", Icon: "🦠", Color: "#0bc5ea"},
	"Antifungal":      {Label: "Antifungal Drugs", Icon: "🍄", Color: "#68d391"},
	"Anticancer":      {Label: "Anticancer / Chemotherapy", Icon: "🎗️", Color: "#fc8181"},
	"Dermatological":  {Label: "Skin and Mucous Membranes", Icon: "🧴", Color: "#fbb6ce"},
	"Vitamins":        {Label: "Vitamins and Minerals", Icon: "💊", Color: "#fbd38d"},
	"Toxicology":      {Label: "Toxicology / Antidotes", Icon: "☠️", Color: "#718096"},
	"Miscellaneous":   {Label: "Miscellaneous / Others", Icon: "🔬", Color: "#a78bfa"},
	"Vaccines":        {Label: "Vaccines & Diagnostic Agents", Icon: "💉", Color: "#4fd1c7"},
}

// defaultSystemInfo is used for systems not present in the metadata table.
var defaultSystemInfo = SystemInfo{Label: "Unknown", Icon: "💊", Color: "#666"}

// Info returns the display metadata for the system, falling back to the
// default entry when the system is not in the lookup table.
func (s BodySystem) Info() SystemInfo {
	if info, ok := systemMetadata[s]; ok {
		info.Key = s
		return info
	}

	info := defaultSystemInfo
	info.Key = s
	return info
}

// UniqueSystems extracts the sorted set of distinct body systems present
// in the given drugs.
func UniqueSystems(drugs []*Drug) []BodySystem {
	seen := make(map[BodySystem]struct{})
	for _, d := range drugs {
		if d.System != "" {
			seen[d.System] = struct{}{}
		}
	}

	systems := make([]BodySystem, 0, len(seen))
	for s := range seen {
		systems = append(systems, s)
	}
	sort.Slice(systems, func(i, j int) bool { return systems[i] < systems[j] })

	return systems
}
