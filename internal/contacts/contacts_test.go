package contacts_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-panchanga/internal/config"
	"github.com/tartampluch/go-panchanga/internal/contacts"
	"github.com/tartampluch/go-panchanga/internal/engine"
	"github.com/tartampluch/go-panchanga/internal/geo"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, name string) (geo.Place, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(geo.Place), args.Error(1)
}

const book = "BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"FN:Asha Rao\r\n" +
	"BDAY:19900101T120000\r\n" +
	"GEO:geo:28.6139,77.2090\r\n" +
	"TZ:+05:30\r\n" +
	"BIRTHPLACE:New Delhi\r\n" +
	"END:VCARD\r\n" +
	"BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"N:Iyer;Ravi;;;\r\n" +
	"BDAY:1992-07-15\r\n" +
	"GEO:geo:48.8566,2.3522\r\n" +
	"TZ:Europe/Paris\r\n" +
	"END:VCARD\r\n" +
	"BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"FN:No Birthday\r\n" +
	"END:VCARD\r\n" +
	"BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"FN:Bad Date\r\n" +
	"BDAY:1990-02-30\r\n" +
	"GEO:geo:0,0\r\n" +
	"END:VCARD\r\n" +
	"BEGIN:VCARD\r\n" +
	"VERSION:4.0\r\n" +
	"FN:Nowhere\r\n" +
	"BDAY:1985-03-03\r\n" +
	"END:VCARD\r\n"

func TestRead(t *testing.T) {
	var r contacts.Reader
	records, err := r.Read(context.Background(), strings.NewReader(book))
	require.NoError(t, err)
	require.Len(t, records, 2, "cards without birthday, with bad date or without location are skipped")

	asha := records[0]
	assert.Equal(t, "Asha Rao", asha.Name)
	assert.True(t, asha.TimeKnown)
	assert.Equal(t, engine.CivilDateTime{Year: 1990, Month: 1, Day: 1, Hour: 12}, asha.Civil)
	assert.Equal(t, engine.Location{Latitude: 28.6139, Longitude: 77.2090, UTCOffset: 5.5}, asha.Location)
	assert.Equal(t, "New Delhi", asha.Place)

	ravi := records[1]
	assert.Equal(t, "Ravi Iyer", ravi.Name)
	assert.False(t, ravi.TimeKnown)
	assert.Equal(t, 12, ravi.Civil.Hour, "date-only birthdays default to noon")
	assert.InDelta(t, 2.0, ravi.Location.UTCOffset, 1e-9, "Paris is on summer time in July")
}

func TestRead_GeocodesBirthplace(t *testing.T) {
	card := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Meera\r\nBDAY:2001-05-20T06:45:00\r\nBIRTHPLACE:Varanasi\r\nEND:VCARD\r\n"
	g := new(MockGeocoder)
	g.On("Geocode", mock.Anything, "Varanasi").Return(geo.Place{Name: "Varanasi", Latitude: 25.3, Longitude: 83.0, Offset: 6}, nil)

	r := contacts.Reader{Geocoder: g}
	records, err := r.Read(context.Background(), strings.NewReader(card))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, engine.Location{Latitude: 25.3, Longitude: 83.0, UTCOffset: 6}, records[0].Location)
	g.AssertExpectations(t)
}

func TestRead_UnresolvedBirthplaceIsSkipped(t *testing.T) {
	card := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Meera\r\nBDAY:2001-05-20\r\nBIRTHPLACE:Atlantis\r\nEND:VCARD\r\n"
	g := new(MockGeocoder)
	g.On("Geocode", mock.Anything, "Atlantis").Return(geo.Place{}, engine.ErrUnresolvedPlace)

	r := contacts.Reader{Geocoder: g}
	records, err := r.Read(context.Background(), strings.NewReader(card))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRead_ZonedBirthday(t *testing.T) {
	card := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Zed\r\nBDAY:1990-01-01T06:30:00Z\r\nGEO:geo:28.6,77.2\r\nEND:VCARD\r\n"
	var r contacts.Reader
	records, err := r.Read(context.Background(), strings.NewReader(card))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, records[0].Location.UTCOffset, "BDAY offset wins over the zone of the GEO point")
	assert.Equal(t, 6, records[0].Civil.Hour)
}

func TestRead_NotAVCard(t *testing.T) {
	inputs := map[string]string{
		"PlainText": "this is not a vcard\n",
		"NoBegin":   "FN:Asha Rao\r\nBDAY:1990-01-01\r\n",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			var r contacts.Reader
			_, err := r.Read(context.Background(), strings.NewReader(input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), config.ErrVCardParse)
		})
	}
}

func TestRead_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Blank", " \r\n\t\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r contacts.Reader
			records, err := r.Read(context.Background(), strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestRead_GeoPointZone(t *testing.T) {
	card := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Kiran\r\nBDAY:1995-08-15T09:00:00\r\nGEO:geo:27.7172,85.3240\r\nEND:VCARD\r\n"
	var r contacts.Reader
	records, err := r.Read(context.Background(), strings.NewReader(card))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 5.75, records[0].Location.UTCOffset, 1e-9, "Kathmandu keeps Nepal time")
}

func TestRead_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var r contacts.Reader
	_, err := r.Read(ctx, strings.NewReader(book))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.vcf")
	require.NoError(t, os.WriteFile(path, []byte(book), config.FilePermUserRW))

	var r contacts.Reader
	records, err := r.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = r.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.vcf"))
	assert.ErrorContains(t, err, config.ErrVCardParse)
}

func TestFind(t *testing.T) {
	records := []engine.BirthData{{Name: "Asha Rao"}, {Name: "Ravi Iyer"}}

	got, err := contacts.Find(records, "  asha RAO ")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.Name)

	_, err = contacts.Find(records, "Nobody")
	assert.ErrorContains(t, err, config.ErrPersonNotFound)
}
