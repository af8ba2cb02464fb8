package klv_test

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/klv"
	"github.com/unkn0wn-root/klv/codec"
)

type reading struct {
	Level uint8
	Note  string
	Alt   *uint16
}

var readingSchema = klv.MustSchema[reading]([]byte("RD"),
	klv.Required(1, codec.Uint8{}, func(r *reading) *uint8 { return &r.Level }),
	klv.Required(2, codec.String{}, func(r *reading) *string { return &r.Note }),
	klv.Optional(3, codec.Uint16{}, func(r *reading) **uint16 { return &r.Alt }),
)

func ExampleNew() {
	c := klv.Must[reading](klv.Options[reading]{Visitor: readingSchema})

	b, err := c.Marshal(reading{Level: 7, Note: "ok"})
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", b)
	// Output: 52 44 01 01 07 02 02 6f 6b
}

func Example_decode() {
	c := klv.Must[reading](klv.Options[reading]{Visitor: readingSchema})

	alt := uint16(1200)
	b, _ := c.Encode(reading{Level: 3, Note: "climb", Alt: &alt})

	r, err := c.Decode(b)
	fmt.Println(r.Level, r.Note, *r.Alt, err)

	b[len(b)-1] ^= 0xFF
	_, err = c.Decode(b)
	fmt.Println(errors.Is(err, klv.ErrChecksumMismatch))
	// Output:
	// 3 climb 1200 <nil>
	// true
}

func ExampleInspect() {
	c := klv.Must[reading](klv.Options[reading]{Visitor: readingSchema})
	b, _ := c.Marshal(reading{Level: 9, Note: "hi"})

	p, _ := klv.Inspect(b, 2)
	for _, it := range p.Items {
		fmt.Printf("tag=%d offset=%d value=%x\n", it.Tag, it.Offset, it.Value)
	}
	// Output:
	// tag=1 offset=2 value=09
	// tag=2 offset=5 value=6869
}
