package java

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const classMagic = 0xCAFEBABE

// Access flags and the descriptor of `public static void main(String[])`.
const (
	accPublic      = 0x0001
	accStatic      = 0x0008
	mainMethodName = "main"
	mainMethodDesc = "([Ljava/lang/String;)V"
)

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

var errTruncated = errors.New("truncated class file")

// classInfo is what the scanner needs to know about a compiled class.
type classInfo struct {
	Name       string // fully-qualified, dot separated
	MainMethod bool   // declares public static void main(String[])
}

// classReader is a bounds-checked big-endian reader. After the first
// failure every read returns zero and err stays set.
type classReader struct {
	b   []byte
	off int
	err error
}

func (r *classReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.b) {
		r.err = errTruncated
		return nil
	}
	p := r.b[r.off : r.off+n]
	r.off += n
	return p
}

func (r *classReader) u1() uint8 {
	if p := r.take(1); p != nil {
		return p[0]
	}
	return 0
}

func (r *classReader) u2() uint16 {
	if p := r.take(2); p != nil {
		return binary.BigEndian.Uint16(p)
	}
	return 0
}

func (r *classReader) u4() uint32 {
	if p := r.take(4); p != nil {
		return binary.BigEndian.Uint32(p)
	}
	return 0
}

// parseClass decodes the parts of a class file that identify its name and
// whether it is runnable. Only the structure is checked, not bytecode.
func parseClass(b []byte) (*classInfo, error) {
	r := &classReader{b: b}
	if r.u4() != classMagic {
		if r.err != nil {
			return nil, r.err
		}
		return nil, fmt.Errorf("not a class file")
	}
	r.take(4) // minor, major version

	count := int(r.u2())
	utf8 := make([]string, count)
	classNames := make([]uint16, count)
	for i := 1; i < count && r.err == nil; i++ {
		switch tag := r.u1(); tag {
		case tagUtf8:
			utf8[i] = string(r.take(int(r.u2())))
		case tagClass:
			classNames[i] = r.u2()
		case tagString, tagMethodType, tagModule, tagPackage:
			r.take(2)
		case tagMethodHandle:
			r.take(3)
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			r.take(4)
		case tagLong, tagDouble:
			r.take(8)
			i++ // 8-byte constants occupy two slots
		default:
			if r.err == nil {
				return nil, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
			}
		}
	}

	r.u2() // access flags
	this := r.u2()
	r.u2() // super class
	r.take(2 * int(r.u2()))
	if r.err != nil {
		return nil, r.err
	}
	if int(this) >= count || int(classNames[this]) >= count || utf8[classNames[this]] == "" {
		return nil, fmt.Errorf("invalid this_class index %d", this)
	}
	info := &classInfo{Name: strings.ReplaceAll(utf8[classNames[this]], "/", ".")}

	skipMembers(r) // fields
	for n := int(r.u2()); n > 0 && r.err == nil; n-- {
		flags, name, desc := r.u2(), r.u2(), r.u2()
		skipAttributes(r)
		if int(name) < count && int(desc) < count &&
			flags&(accPublic|accStatic) == accPublic|accStatic &&
			utf8[name] == mainMethodName && utf8[desc] == mainMethodDesc {
			info.MainMethod = true
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return info, nil
}

func skipMembers(r *classReader) {
	for n := int(r.u2()); n > 0 && r.err == nil; n-- {
		r.take(6) // access flags, name, descriptor
		skipAttributes(r)
	}
}

func skipAttributes(r *classReader) {
	for n := int(r.u2()); n > 0 && r.err == nil; n-- {
		r.u2()
		r.take(int(r.u4()))
	}
}
