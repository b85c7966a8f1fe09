package models

// AuthUser is the persisted session record.
type AuthUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Address is a delivery address. JSON tags match the record layout the mobile
// client has always persisted, so existing device storage stays readable.
type Address struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Apartment string `json:"apartment,omitempty"`
	Entrance  string `json:"entrance,omitempty"`
	Floor     string `json:"floor,omitempty"`
	Comment   string `json:"comment,omitempty"`
	IsDefault bool   `json:"isDefault"`
}

// AddressPatch carries a partial update; nil fields are left untouched.
type AddressPatch struct {
	Name      *string `json:"name,omitempty"`
	Street    *string `json:"street,omitempty"`
	House     *string `json:"house,omitempty"`
	Apartment *string `json:"apartment,omitempty"`
	Entrance  *string `json:"entrance,omitempty"`
	Floor     *string `json:"floor,omitempty"`
	Comment   *string `json:"comment,omitempty"`
}

// CartItem is one line item: a distinct product and its requested quantity.
// Price is the unit price in whole currency units.
type CartItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Compound string `json:"compound"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int64  `json:"quantity"`
}
