package main

import (
	"encoding/xml"

	"github.com/vitalvas/urlkit/weburl"
)

// urlRecord is the rendered form of a parsed URL.
type urlRecord struct {
	XMLName xml.Name `json:"-" yaml:"-" xml:"url"`

	Href     string `json:"href" yaml:"href" xml:"href"`
	Origin   string `json:"origin" yaml:"origin" xml:"origin"`
	Protocol string `json:"protocol" yaml:"protocol" xml:"protocol"`
	Username string `json:"username" yaml:"username" xml:"username"`
	Password string `json:"password" yaml:"password" xml:"password"`
	Host     string `json:"host" yaml:"host" xml:"host"`
	Hostname string `json:"hostname" yaml:"hostname" xml:"hostname"`
	Port     string `json:"port" yaml:"port" xml:"port"`
	Pathname string `json:"pathname" yaml:"pathname" xml:"pathname"`
	Search   string `json:"search" yaml:"search" xml:"search"`
	Hash     string `json:"hash" yaml:"hash" xml:"hash"`

	Offsets offsetsRecord `json:"offsets" yaml:"offsets" xml:"offsets"`
}

// offsetsRecord lists the component boundaries of the serialization.
type offsetsRecord struct {
	SchemeEnd     int  `json:"scheme_end" yaml:"scheme_end" xml:"scheme_end"`
	UsernameEnd   int  `json:"username_end" yaml:"username_end" xml:"username_end"`
	HostStart     int  `json:"host_start" yaml:"host_start" xml:"host_start"`
	HostEnd       int  `json:"host_end" yaml:"host_end" xml:"host_end"`
	Port          *int `json:"port,omitempty" yaml:"port,omitempty" xml:"port,omitempty"`
	PathStart     int  `json:"path_start" yaml:"path_start" xml:"path_start"`
	QueryStart    *int `json:"query_start,omitempty" yaml:"query_start,omitempty" xml:"query_start,omitempty"`
	FragmentStart *int `json:"fragment_start,omitempty" yaml:"fragment_start,omitempty" xml:"fragment_start,omitempty"`
}

func newURLRecord(u *weburl.URL) urlRecord {
	c := u.Canonical()

	offsets := offsetsRecord{
		SchemeEnd:   c.SchemeEnd(),
		UsernameEnd: c.UsernameEnd(),
		HostStart:   c.HostStart(),
		HostEnd:     c.HostEnd(),
		PathStart:   c.PathStart(),
	}
	if port := c.Port(); port != weburl.NoPort {
		offsets.Port = &port
	}
	if i, ok := c.QueryStart(); ok {
		offsets.QueryStart = &i
	}
	if i, ok := c.FragmentStart(); ok {
		offsets.FragmentStart = &i
	}

	return urlRecord{
		Href:     u.Href(),
		Origin:   u.Origin(),
		Protocol: u.Protocol(),
		Username: u.Username(),
		Password: u.Password(),
		Host:     u.Host(),
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Pathname: u.Pathname(),
		Search:   u.Search(),
		Hash:     u.Hash(),
		Offsets:  offsets,
	}
}

// queryRecord is the rendered form of a search params list.
type queryRecord struct {
	Query string      `json:"query" yaml:"query"`
	Pairs [][2]string `json:"pairs" yaml:"pairs"`
}

func newQueryRecord(p *weburl.SearchParams) queryRecord {
	rec := queryRecord{Query: p.String(), Pairs: [][2]string{}}
	for name, value := range p.All() {
		rec.Pairs = append(rec.Pairs, [2]string{name, value})
	}
	return rec
}
