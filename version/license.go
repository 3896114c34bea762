/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package version

import "fmt"

// License identifies one of the common open-source license texts a binary
// can declare itself under.
type License uint8

const (
	License_MIT License = iota
	License_Apache_v2
	License_GNU_GPL_v3
	License_GNU_Affero_GPL_v3
	License_GNU_Lesser_GPL_v3
	License_Mozilla_PL_v2
	License_Unlicense
	License_Creative_Common_Zero_v1
	License_Creative_Common_Attribution_v4_int
	License_Creative_Common_Attribution_Share_Alike_v4_int
	License_SIL_Open_Font_1_1
)

var licenseName = map[License]string{
	License_MIT:                          "MIT License",
	License_Apache_v2:                    "Apache License, Version 2.0",
	License_GNU_GPL_v3:                   "GNU GENERAL PUBLIC LICENSE, Version 3",
	License_GNU_Affero_GPL_v3:            "GNU AFFERO GENERAL PUBLIC LICENSE, Version 3",
	License_GNU_Lesser_GPL_v3:            "GNU LESSER GENERAL PUBLIC LICENSE, Version 3",
	License_Mozilla_PL_v2:                "Mozilla Public License, Version 2.0",
	License_Unlicense:                    "Free and unencumbered software",
	License_Creative_Common_Zero_v1:      "Creative Commons Zero v1.0 Universal",
	License_Creative_Common_Attribution_v4_int:             "Creative Commons Attribution 4.0 International",
	License_Creative_Common_Attribution_Share_Alike_v4_int: "Creative Commons Attribution-ShareAlike 4.0 International",
	License_SIL_Open_Font_1_1: "SIL Open Font License, Version 1.1",
}

var licenseBoiler = map[License]string{
	License_MIT: "MIT License\n\nPermission is hereby granted, free of charge, to any person obtaining a copy\n" +
		"of this software and associated documentation files, to deal in the Software\n" +
		"without restriction, including without limitation the rights to use, copy,\n" +
		"modify, merge, publish, distribute, sublicense, and/or sell copies.\n",
	License_Apache_v2: "Apache License\nVersion 2.0\n\n" +
		"Licensed under the Apache License, Version 2.0; you may not use this file\n" +
		"except in compliance with the License.\n",
	License_GNU_GPL_v3: "GNU GENERAL PUBLIC LICENSE\nVersion 3\n\n" +
		"This program is free software: you can redistribute it and/or modify it\n" +
		"under the terms of the GNU General Public License.\n",
	License_GNU_Affero_GPL_v3: "GNU AFFERO GENERAL PUBLIC LICENSE\nVersion 3\n\n" +
		"This program is free software: you can redistribute it and/or modify it\n" +
		"under the terms of the GNU Affero General Public License.\n",
	License_GNU_Lesser_GPL_v3: "GNU LESSER GENERAL PUBLIC LICENSE\nVersion 3\n\n" +
		"This library is free software: you can redistribute it and/or modify it\n" +
		"under the terms of the GNU Lesser General Public License.\n",
	License_Mozilla_PL_v2: "Mozilla Public License, v. 2.0\n\n" +
		"This Source Code Form is subject to the terms of the Mozilla Public License.\n",
	License_Unlicense: "Free and unencumbered software\n\n" +
		"This is free and unencumbered software released into the public domain.\n",
	License_Creative_Common_Zero_v1: "Creative Commons Zero v1.0 Universal\n\n" +
		"No Copyright: the person who associated a work with this deed has dedicated\n" +
		"the work to the public domain.\n",
	License_Creative_Common_Attribution_v4_int: "Creative Commons Attribution 4.0 International\n\n" +
		"You are free to share and adapt the material for any purpose, provided\n" +
		"appropriate credit is given.\n",
	License_Creative_Common_Attribution_Share_Alike_v4_int: "Creative Commons Attribution-ShareAlike 4.0 International\n\n" +
		"You are free to share and adapt the material, provided appropriate credit\n" +
		"is given and derivatives are shared under the same license.\n",
	License_SIL_Open_Font_1_1: "SIL Open Font License, Version 1.1\n\n" +
		"Copies of this font may be embedded, distributed and/or modified without\n" +
		"restriction, subject to the accompanying conditions.\n",
}

func (l License) name() string {
	if n, k := licenseName[l]; k {
		return n
	}

	return "Unknown License"
}

func (l License) boiler() string {
	if b, k := licenseBoiler[l]; k {
		return b
	}

	return l.name() + "\n"
}

func mergeLicenseNames(main License, extra ...License) string {
	res := main.name()

	for _, l := range extra {
		res += fmt.Sprintf(", %s", l.name())
	}

	return res
}

func mergeLicenseBoiler(main License, extra ...License) string {
	res := main.boiler()

	for _, l := range extra {
		res += "\n" + l.boiler()
	}

	return res
}

func mergeLicenseLegal(main License, extra ...License) string {
	res := fmt.Sprintf("Licensed under %s.", main.name())

	for _, l := range extra {
		res += fmt.Sprintf(" Also under %s.", l.name())
	}

	return res
}
