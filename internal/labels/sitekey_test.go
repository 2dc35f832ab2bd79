package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSiteKey(t *testing.T) {
	tests := []struct {
		name string
		want SiteKey
	}{
		{
			name: "1000-https!www.priceline.com-20230201102900088-1.png",
			want: SiteKey{Rank: 1000, Scheme: "https", Host: "www.priceline.com", Timestamp: "20230201102900088", Suffix: "1", Ext: "png"},
		},
		{
			name: "shots/7-http!my-site.example.org-20230201094318999-combined.png",
			want: SiteKey{Rank: 7, Scheme: "http", Host: "my-site.example.org", Timestamp: "20230201094318999", Suffix: "combined", Ext: "png"},
		},
		{
			name: "3-https!WWW.Example.COM-20230201094318999-0.jpg",
			want: SiteKey{Rank: 3, Scheme: "https", Host: "www.example.com", Timestamp: "20230201094318999", Suffix: "0", Ext: "jpg"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSiteKey(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSiteKeyRejects(t *testing.T) {
	for _, name := range []string{
		"google-20.jpg",
		"1000-https!www.priceline.com-1.png",
		"https!www.priceline.com-20230201102900088-1.png",
		"1000-https!www.priceline.com-20230201102900088-1",
	} {
		_, err := ParseSiteKey(name)
		assert.Error(t, err, name)
	}
}

func TestSiteKeyString(t *testing.T) {
	const name = "1000-https!www.priceline.com-20230201102900088-1.png"
	k, err := ParseSiteKey(name)
	require.NoError(t, err)
	assert.Equal(t, name, k.String())
}

func TestHostFromURL(t *testing.T) {
	host, err := HostFromURL(" https://WWW.Priceline.com:443/login?x=1 ")
	require.NoError(t, err)
	assert.Equal(t, "www.priceline.com", host)

	_, err = HostFromURL("not a url")
	assert.Error(t, err)
}
