package models

// SenderFields is the form state of the sender dialog. It is filled from the
// selected request when the dialog opens and sent as a merge patch.
type SenderFields struct {
	GivenName       string `json:"senderGivenName"       validate:"max=255"`
	FamilyName      string `json:"senderFamilyName"      validate:"max=255"`
	AddressCountry  string `json:"senderAddressCountry"  validate:"omitempty,iso3166_1_alpha2"`
	PostalCode      string `json:"senderPostalCode"      validate:"max=20"`
	AddressLocality string `json:"senderAddressLocality" validate:"max=120"`
	StreetAddress   string `json:"senderStreetAddress"   validate:"max=120"`
	BuildingNumber  string `json:"senderBuildingNumber"  validate:"max=20"`
}

func SenderFieldsOf(r DispatchRequest) SenderFields {
	return SenderFields{
		GivenName:       r.SenderGivenName,
		FamilyName:      r.SenderFamilyName,
		AddressCountry:  r.SenderAddressCountry,
		PostalCode:      r.SenderPostalCode,
		AddressLocality: r.SenderAddressLocality,
		StreetAddress:   r.SenderStreetAddress,
		BuildingNumber:  r.SenderBuildingNumber,
	}
}

// RecipientFields is the form state of the recipient dialog.
type RecipientFields struct {
	GivenName       string `json:"givenName"                 validate:"required,max=255"`
	FamilyName      string `json:"familyName"                validate:"required,max=255"`
	AddressCountry  string `json:"addressCountry"            validate:"required,iso3166_1_alpha2"`
	PostalCode      string `json:"postalCode"                validate:"required,max=20"`
	AddressLocality string `json:"addressLocality"           validate:"required,max=120"`
	StreetAddress   string `json:"streetAddress"             validate:"required,max=120"`
	BuildingNumber  string `json:"buildingNumber,omitempty"  validate:"max=20"`
	BirthDate       string `json:"birthDate,omitempty"       validate:"omitempty,datetime=2006-01-02"`
}

func RecipientFieldsOf(r Recipient) RecipientFields {
	return RecipientFields{
		GivenName:       r.GivenName,
		FamilyName:      r.FamilyName,
		AddressCountry:  r.AddressCountry,
		PostalCode:      r.PostalCode,
		AddressLocality: r.AddressLocality,
		StreetAddress:   r.StreetAddress,
		BuildingNumber:  r.BuildingNumber,
		BirthDate:       r.BirthDate,
	}
}

// Upload is a file picked for attachment.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}
