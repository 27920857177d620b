// Package geo resolves Indian place names mentioned in free text to
// coordinates using a static gazetteer of major cities and states.
package geo

import "sort"

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// cities maps lowercase city names to coordinates. City matches take
// precedence over state matches because they are more specific.
var cities = map[string]Point{
	"mumbai":             {19.0760, 72.8777},
	"delhi":              {28.6139, 77.2090},
	"bangalore":          {12.9716, 77.5946},
	"hyderabad":          {17.3850, 78.4867},
	"ahmedabad":          {23.0225, 72.5714},
	"chennai":            {13.0827, 80.2707},
	"kolkata":            {22.5726, 88.3639},
	"pune":               {18.5204, 73.8567},
	"jaipur":             {26.9124, 75.7873},
	"lucknow":            {26.8467, 80.9462},
	"kanpur":             {26.4499, 80.3319},
	"nagpur":             {21.1458, 79.0882},
	"indore":             {22.7196, 75.8577},
	"bhopal":             {23.2599, 77.4126},
	"visakhapatnam":      {17.6868, 83.2185},
	"patna":              {25.5941, 85.1376},
	"vadodara":           {22.3072, 73.1812},
	"ludhiana":           {30.9010, 75.8573},
	"agra":               {27.1767, 78.0081},
	"nashik":             {19.9975, 73.7898},
	"srinagar":           {34.0837, 74.7973},
	"guwahati":           {26.1445, 91.7362},
	"chandigarh":         {30.7333, 76.7794},
	"thiruvananthapuram": {8.5241, 76.9366},
	"bhubaneswar":        {20.2961, 85.8245},
	"mysore":             {12.2958, 76.6394},
	"goa":                {15.2993, 74.1240},
	"coimbatore":         {11.0168, 76.9558},
	"madurai":            {9.9252, 78.1198},
	"varanasi":           {25.3176, 82.9739},
	"allahabad":          {25.4358, 81.8463},
	"jodhpur":            {26.2389, 73.0243},
	"kochi":              {9.9312, 76.2673},
	"vijayawada":         {16.5062, 80.6480},
	"mangalore":          {12.9141, 74.8560},
	"hubli":              {15.3647, 75.1240},
	"belgaum":            {15.8497, 74.4977},
}

// states maps lowercase state and union-territory names to centroid
// coordinates.
var states = map[string]Point{
	"andhra pradesh":    {15.9129, 79.7400},
	"arunachal pradesh": {28.2180, 94.7278},
	"assam":             {26.2006, 92.9376},
	"bihar":             {25.0961, 85.3131},
	"chhattisgarh":      {21.2787, 81.8661},
	"gujarat":           {22.2587, 71.1924},
	"haryana":           {29.0588, 76.0856},
	"himachal pradesh":  {31.1048, 77.1734},
	"jharkhand":         {23.6102, 85.2799},
	"karnataka":         {15.3173, 75.7139},
	"kerala":            {10.8505, 76.2711},
	"madhya pradesh":    {22.9734, 78.6569},
	"maharashtra":       {19.7515, 75.7139},
	"manipur":           {24.6637, 93.9063},
	"meghalaya":         {25.4670, 91.3662},
	"mizoram":           {23.1645, 92.9376},
	"nagaland":          {26.1584, 94.5624},
	"odisha":            {20.9517, 85.0985},
	"punjab":            {31.1471, 75.3412},
	"rajasthan":         {27.0238, 74.2179},
	"sikkim":            {27.5330, 88.5122},
	"tamil nadu":        {11.1271, 78.6569},
	"telangana":         {18.1124, 79.0193},
	"tripura":           {23.9408, 91.9882},
	"uttarakhand":       {30.0668, 79.0193},
	"uttar pradesh":     {26.8467, 80.9462},
	"west bengal":       {22.9868, 87.8550},
	"jammu and kashmir": {34.0837, 74.7973},
	"puducherry":        {11.9416, 79.8083},
}

// aliases maps historical or alternate spellings to canonical city names.
var aliases = map[string]string{
	"bombay":     "mumbai",
	"calcutta":   "kolkata",
	"madras":     "chennai",
	"new delhi":  "delhi",
	"bengaluru":  "bangalore",
	"mysuru":     "mysore",
	"cochin":     "kochi",
	"trivandrum": "thiruvananthapuram",
	"prayagraj":  "allahabad",
	"mangaluru":  "mangalore",
	"hubballi":   "hubli",
	"belagavi":   "belgaum",
}

// cityNames and stateNames hold the gazetteer keys in a fixed order so
// extraction is deterministic across runs.
var (
	cityNames  = sortedKeys(cities)
	stateNames = sortedKeys(states)
	aliasNames = sortedKeys2(aliases)
)

func sortedKeys(m map[string]Point) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeys2(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
