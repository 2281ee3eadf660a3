package cbr

import "encoding/xml"

// DailyRates is the XML document returned by the Central Bank daily rates feed.
type DailyRates struct {
	XMLName xml.Name `xml:"ValCurs"`
	Date    string   `xml:"Date,attr"` // DD.MM.YYYY
	Name    string   `xml:"name,attr"`
	Valutes []Valute `xml:"Valute"`
}

// Valute is one currency quote. Value is the ruble price of Nominal units and
// uses a decimal comma ("92,5058").
type Valute struct {
	ID        string `xml:"ID,attr"`
	NumCode   string `xml:"NumCode"`
	CharCode  string `xml:"CharCode"`
	Nominal   int64  `xml:"Nominal"`
	Name      string `xml:"Name"`
	Value     string `xml:"Value"`
	VunitRate string `xml:"VunitRate"`
}
