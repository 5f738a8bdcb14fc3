package models

// ThreatReport is the aggregate triage result for one record set.
// It is produced on demand and never mutated after construction.
type ThreatReport struct {
	Summary      ReportSummary       `json:"summary"`
	KeyThreats   KeyThreats          `json:"key_threats"`
	Connections  Connections         `json:"connections"`
	Timeline     map[string][]string `json:"timeline"`
	GraphStats   GraphStats          `json:"graph_stats"`
	TextAnalysis []TextAnalysis      `json:"text_analysis"`
}

// ReportSummary holds the headline counts.
type ReportSummary struct {
	TotalItems         int `json:"total_items"`
	ThreatItems        int `json:"threat_items"`
	SafeItems          int `json:"safe_items"`
	WeaponRelatedItems int `json:"weapon_related_items"`
}

// KeyThreats groups the strongest threat indicators.
type KeyThreats struct {
	WeaponRelatedTags  []string            `json:"weapon_related_tags"`
	RelatedFiles       []string            `json:"related_files"`
	KeywordOccurrences map[string][]string `json:"key_content_keywords"`
}

// Connections describes how items relate to each other.
type Connections struct {
	TagCooccurrence     []CooccurrencePair `json:"tag_connections"`
	ContentSimilarities []SimilarityEdge   `json:"content_similarities"`
}

// CooccurrencePair is an unordered pair of distinct tags appearing together
// on at least one file. First and Second are canonicalized (First <= Second)
// so (A,B) and (B,A) never both exist.
type CooccurrencePair struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Count  int    `json:"count"`
}

// SimilarityEdge records significant word overlap between two file contents.
// Similarity is in (0.1, 1.0]; edges at or below the threshold are never emitted.
type SimilarityEdge struct {
	File1       string   `json:"file1"`
	File2       string   `json:"file2"`
	Similarity  float64  `json:"similarity"`
	CommonWords []string `json:"common_words"`
}

// GraphStats summarizes the file/tag relationship graph.
type GraphStats struct {
	Nodes                int           `json:"nodes"`
	Edges                int           `json:"edges"`
	TopCentralNodes      []CentralNode `json:"top_central_nodes"`
	Communities          int           `json:"communities"`
	LargestCommunitySize int           `json:"largest_community_size"`
}

// CentralNode is a node with its degree centrality.
type CentralNode struct {
	Node       string  `json:"node"`
	Centrality float64 `json:"centrality"`
}

// TextAnalysis is the per-record keyword/entity detection result. Its verdict
// is independent of the categorizer's threat/safe label; the two may disagree
// and are reported separately.
type TextAnalysis struct {
	File     string        `json:"file"`
	Entities []Entity      `json:"entities"`
	Verdict  ThreatVerdict `json:"predicted_threats"`
}

// Entity is one detected sensitive value in a text blob.
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ThreatVerdict is the scored outcome of keyword/entity detection on one text.
type ThreatVerdict struct {
	ThreatDetected bool     `json:"threat_detected"`
	Score          int      `json:"score"`
	Categories     []string `json:"categories"`
	Keywords       []string `json:"keywords"`
	Summary        string   `json:"summary"`
}
