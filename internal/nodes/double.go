package nodes

import "github.com/shaiso/Nodeflow/internal/domain"

// evalDouble отдаёт вход без изменений на original и удвоенный на timesTwo.
// Последовательности чисел удваиваются поэлементно.
func evalDouble(in domain.PortValues) (domain.PortValues, error) {
	v := in[domain.PortIn]
	if v.IsZero() {
		v = domain.Number(0)
	}

	if list, ok := v.AsNumberList(); ok {
		for i := range list {
			n, err := finite(domain.PortTimesTwo, list[i]*2)
			if err != nil {
				return nil, err
			}
			list[i] = n
		}
		return domain.PortValues{
			domain.PortOriginal: v,
			domain.PortTimesTwo: domain.NumberList(list...),
		}, nil
	}

	n, err := toNumber(domain.PortIn, v)
	if err != nil {
		return nil, err
	}
	doubled, err := finite(domain.PortTimesTwo, n*2)
	if err != nil {
		return nil, err
	}
	return domain.PortValues{
		domain.PortOriginal: v,
		domain.PortTimesTwo: domain.Number(doubled),
	}, nil
}
