package nodes

import "github.com/shaiso/Nodeflow/internal/domain"

// evalConcatenate склеивает input-a, link и input-b.
func evalConcatenate(in domain.PortValues) (domain.PortValues, error) {
	a, err := textInput(in, domain.PortInputA)
	if err != nil {
		return nil, err
	}
	link, err := textInput(in, domain.PortLink)
	if err != nil {
		return nil, err
	}
	b, err := textInput(in, domain.PortInputB)
	if err != nil {
		return nil, err
	}

	return domain.PortValues{domain.PortOut: domain.Text(a + link + b)}, nil
}
