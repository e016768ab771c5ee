package models

// Opinion is a single court opinion as returned by the CourtListener API.
type Opinion struct {
	ID          int    `json:"id"`
	CaseName    string `json:"case_name,omitempty"`
	Court       string `json:"court,omitempty"`
	DateFiled   string `json:"date_filed,omitempty"`
	AbsoluteURL string `json:"absolute_url,omitempty"`
	PlainText   string `json:"plain_text,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Cluster     string `json:"cluster,omitempty"`
}

// Docket is a court docket record.
type Docket struct {
	ID           int    `json:"id"`
	CaseName     string `json:"case_name,omitempty"`
	DocketNumber string `json:"docket_number,omitempty"`
	Court        string `json:"court,omitempty"`
	DateFiled    string `json:"date_filed,omitempty"`
	DateArgued   string `json:"date_argued,omitempty"`
	AbsoluteURL  string `json:"absolute_url,omitempty"`
}

// SearchHit is one result from the opinion search endpoint.
type SearchHit struct {
	ID          int     `json:"id"`
	CaseName    string  `json:"caseName,omitempty"`
	Court       string  `json:"court,omitempty"`
	DateFiled   string  `json:"dateFiled,omitempty"`
	Snippet     string  `json:"snippet,omitempty"`
	Status      string  `json:"status,omitempty"`
	AbsoluteURL string  `json:"absolute_url,omitempty"`
	CiteCount   int     `json:"citeCount,omitempty"`
	Score       float64 `json:"score,omitempty"`
}

// SearchResults is a page of opinion search results.
type SearchResults struct {
	Count    int         `json:"count"`
	Next     string      `json:"next,omitempty"`
	Previous string      `json:"previous,omitempty"`
	Results  []SearchHit `json:"results"`
}
